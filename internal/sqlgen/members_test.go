package sqlgen

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAccounts(n int) []Account {
	out := make([]Account, n)
	for i := range out {
		role := RoleTeacher
		if i%2 == 1 {
			role = RoleStudent
		}
		out[i] = Account{
			UserID:       fmt.Sprintf("user%d", i),
			UserName:     fmt.Sprintf("  名前 %d ", i),
			PasswordHash: fmt.Sprintf("$2a$10$hash%d", i),
			Role:         role,
		}
	}
	return out
}

func TestMembersPlaceholderWhenEmpty(t *testing.T) {
	out, err := New(FormatPretty, Facility{}).Members(MembersInput{OrganizationName: "X"})
	require.NoError(t, err)
	assert.Equal(t, NoMembersPlaceholder, out)
	assert.NotContains(t, out, "START TRANSACTION")
}

func TestMembersScriptShape(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d accounts", n), func(t *testing.T) {
			script, ok := MembersScript(MembersInput{
				OrganizationName: "Org",
				PrefCode:         13,
				CityCode:         13101,
				Accounts:         sampleAccounts(n),
			}, DefaultFacility)
			require.True(t, ok)
			require.Len(t, script.Statements, 4)

			member := script.Statements[0].(Insert)
			assert.Equal(t, "member", member.Table)
			assert.Len(t, member.Rows, n)

			assert.Equal(t, Raw("SET @first_member_id = LAST_INSERT_ID()"), script.Statements[1])

			roles := script.Statements[2].(Insert)
			assert.Equal(t, "member_roles", roles.Table)
			require.Len(t, roles.Rows, 2*n)

			periods := script.Statements[3].(Insert)
			assert.Equal(t, "member_role_periods", periods.Table)
			require.Len(t, periods.Rows, n)

			for i := 0; i < n; i++ {
				key := fmt.Sprintf("(@first_member_id + %d)", i)
				assert.Equal(t, []string{key, "'USER'", "NOW()", "NOW()"}, roles.Rows[2*i])
				assert.Equal(t, []string{key, "'GENERAL'", "NOW()", "NOW()"}, roles.Rows[2*i+1])
				assert.Equal(t, key, periods.Rows[i][0])
				assert.Equal(t, "'GENERAL'", periods.Rows[i][1])
				assert.Equal(t, "2", periods.Rows[i][4])
			}
		})
	}
}

func TestMemberRowValues(t *testing.T) {
	script, ok := MembersScript(MembersInput{
		OrganizationName: "Test School",
		PrefCode:         13,
		CityCode:         13101,
		Accounts:         []Account{{UserID: "alice", UserName: "  Alice A ", PasswordHash: "H1", Role: RoleTeacher}},
		PeriodStart:      "2025-04-01",
		PeriodEnd:        "2026-03-31",
	}, DefaultFacility)
	require.True(t, ok)

	row := script.Statements[0].(Insert).Rows[0]
	want := []string{
		"'alice'", "'0'", "'0'", "'Alice A'", "'Test School'", "'105-0001'", "13",
		"'港区'", "'虎ノ門3-1-1'", "'012-345-6789'", "'alice@kankouyohou.com'", "NOW()",
		"'H1'", "13", "13101", "NULL", "'0'", "'2026-03-31 00:00:00'", "'0'",
		"NOW()", "NOW()", "NULL", "'0'",
	}
	assert.Equal(t, want, row)

	period := script.Statements[3].(Insert).Rows[0]
	assert.Equal(t, "'2025-04-01 00:00:00'", period[2])
	assert.Equal(t, "'2026-03-31 00:00:00'", period[3])
}

func TestMemberPeriodsNullWhenMissing(t *testing.T) {
	script, ok := MembersScript(MembersInput{
		OrganizationName: "Org",
		Accounts:         sampleAccounts(1),
		PeriodStart:      "2025-04-01",
	}, DefaultFacility)
	require.True(t, ok)

	member := script.Statements[0].(Insert).Rows[0]
	assert.Equal(t, "NULL", member[17], "expiration_date follows period_to")

	period := script.Statements[3].(Insert).Rows[0]
	assert.Equal(t, "'2025-04-01 00:00:00'", period[2])
	assert.Equal(t, "NULL", period[3])
}

func TestMemberMailDomainOverride(t *testing.T) {
	in := MembersInput{
		OrganizationName: "Org",
		Accounts:         []Account{{UserID: "bob", PasswordHash: "h"}},
	}
	facility := Facility{MailDomain: "school.example.jp", Phone: "03-0000-0000"}

	script, _ := MembersScript(in, facility)
	row := script.Statements[0].(Insert).Rows[0]
	assert.Equal(t, "'bob@school.example.jp'", row[10])
	assert.Equal(t, "'03-0000-0000'", row[9])
	assert.Equal(t, "'105-0001'", row[5], "unset facility fields fall back to defaults")

	in.MailDomain = "override.example.com"
	script, _ = MembersScript(in, facility)
	row = script.Statements[0].(Insert).Rows[0]
	assert.Equal(t, "'bob@override.example.com'", row[10])
}

func TestMemberQuotesEscapedOnce(t *testing.T) {
	script, _ := MembersScript(MembersInput{
		OrganizationName: "St. Mary's",
		Accounts:         []Account{{UserID: "d'arcy", UserName: "D'Arcy", PasswordHash: "h"}},
	}, DefaultFacility)
	row := script.Statements[0].(Insert).Rows[0]
	assert.Equal(t, "'d''arcy'", row[0])
	assert.Equal(t, "'D''Arcy'", row[3])
	assert.Equal(t, "'St. Mary''s'", row[4])
	assert.Equal(t, "'d''arcy@kankouyohou.com'", row[10])
}

func TestMembersPrettyLayout(t *testing.T) {
	out, err := New(FormatPretty, Facility{}).Members(MembersInput{
		OrganizationName: "Org",
		PrefCode:         13,
		CityCode:         13101,
		Accounts:         sampleAccounts(2),
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "START TRANSACTION;\n\nINSERT INTO member (\n  login_id,\n"))
	assert.True(t, strings.HasSuffix(out, ";\n\nCOMMIT;\n"))
	assert.Contains(t, out, "SET @first_member_id = LAST_INSERT_ID();")
	assert.Contains(t, out,
		"  ((@first_member_id + 0), 'USER', NOW(), NOW()), ((@first_member_id + 0), 'GENERAL', NOW(), NOW()),\n"+
			"  ((@first_member_id + 1), 'USER', NOW(), NOW()), ((@first_member_id + 1), 'GENERAL', NOW(), NOW());")
	assert.Contains(t, out, "  ((@first_member_id + 1), 'GENERAL', NULL, NULL, 2, NOW(), NOW());")

	member := strings.Index(out, "INSERT INTO member (")
	capture := strings.Index(out, "SET @first_member_id")
	roles := strings.Index(out, "INSERT INTO member_roles")
	periods := strings.Index(out, "INSERT INTO member_role_periods")
	assert.True(t, member < capture && capture < roles && roles < periods)
}

func TestMembersCompactLayout(t *testing.T) {
	out, err := New(FormatCompact, Facility{}).Members(MembersInput{
		OrganizationName: "Org",
		Accounts:         sampleAccounts(3),
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, 6, strings.Count(lines[3], "(@first_member_id + "))
	assert.Equal(t, 3, strings.Count(lines[4], "(@first_member_id + "))
}
