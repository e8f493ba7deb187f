package sqlgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchoolUsersSQL = `START TRANSACTION;

INSERT INTO user_group (
  user_group_name,
  prefecture_code,
  city_code,
  version_no,
  create_date,
  created_by,
  update_date,
  updated_by,
  delete_flag
) VALUES
  ('Test School', 13, 13101, 1, NOW(), 'admin', NOW(), 'admin', 0);

SET @user_group_id = LAST_INSERT_ID();

INSERT INTO users (
  user_name,
  password,
  role_id,
  user_group_id,
  version_no,
  create_date,
  created_by,
  update_date,
  updated_by,
  delete_date,
  delete_flag
) VALUES
  ('alice', 'H1', 1, @user_group_id, 1, NOW(), 'admin', NOW(), 'admin', NULL, 0);

COMMIT;
`

func TestOrganizationAndLoginsExample(t *testing.T) {
	g := New(FormatPretty, Facility{})
	out, err := g.OrganizationAndLogins(UsersInput{
		OrganizationName: "Test School",
		PrefCode:         13,
		CityCode:         13101,
		Accounts:         []Account{{UserID: "alice", PasswordHash: "H1", Role: RoleTeacher}},
	})
	require.NoError(t, err)
	assert.Equal(t, testSchoolUsersSQL, out)
}

func TestOrganizationAndLoginsWithoutAccounts(t *testing.T) {
	g := New(FormatPretty, Facility{})
	out, err := g.OrganizationAndLogins(UsersInput{OrganizationName: "空の学校", PrefCode: 1, CityCode: 1100})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "START TRANSACTION;"))
	assert.True(t, strings.HasSuffix(out, "COMMIT;\n"))
	assert.Equal(t, 1, strings.Count(out, "INSERT INTO user_group"))
	assert.NotContains(t, out, "INSERT INTO users")
	assert.NotContains(t, out, "LAST_INSERT_ID")
	assert.Contains(t, out, "('空の学校', 1, 1100, 1, NOW(), 'admin', NOW(), 'admin', 0);")
}

func TestUsersScriptKeepsInputOrder(t *testing.T) {
	accounts := []Account{
		{UserID: "t1", PasswordHash: "h-t1", Role: RoleTeacher},
		{UserID: "t2", PasswordHash: "h-t2", Role: RoleTeacher},
		{UserID: "s1", PasswordHash: "h-s1", Role: RoleStudent},
	}
	script := UsersScript(UsersInput{OrganizationName: "X", Accounts: accounts})
	require.Len(t, script.Statements, 3)

	users, ok := script.Statements[2].(Insert)
	require.True(t, ok)
	require.Len(t, users.Rows, len(accounts))
	for i, a := range accounts {
		assert.Equal(t, Quote(a.UserID), users.Rows[i][0])
		assert.Equal(t, Int(int(a.Role)), users.Rows[i][2])
	}

	out, err := New(FormatPretty, Facility{}).OrganizationAndLogins(UsersInput{OrganizationName: "X", Accounts: accounts})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "INSERT INTO user_group"))
	t1 := strings.Index(out, "('t1'")
	t2 := strings.Index(out, "('t2'")
	s1 := strings.Index(out, "('s1'")
	assert.True(t, t1 < t2 && t2 < s1, "tuples out of order:\n%s", out)
	assert.Contains(t, out, "('s1', 'h-s1', 2, @user_group_id")
}

func TestQuotesAreDoubled(t *testing.T) {
	org := "O'Brien's \"School\""
	user := "o'neil"
	out, err := New(FormatPretty, Facility{}).OrganizationAndLogins(UsersInput{
		OrganizationName: org,
		Accounts:         []Account{{UserID: user, PasswordHash: "h", Role: RoleStudent}},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "'O''Brien''s \"School\"'")
	assert.Contains(t, out, "'o''neil'")
	assert.Equal(t, org, Unescape(Escape(org)))
	assert.Equal(t, user, Unescape(Escape(user)))
}

func TestCompactFormat(t *testing.T) {
	g := New(FormatCompact, Facility{})
	out, err := g.OrganizationAndLogins(UsersInput{
		OrganizationName: "Test School",
		PrefCode:         13,
		CityCode:         13101,
		Accounts: []Account{
			{UserID: "alice", PasswordHash: "H1", Role: RoleTeacher},
			{UserID: "what?", PasswordHash: "H2", Role: RoleStudent},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "START TRANSACTION;", lines[0])
	assert.Equal(t,
		"INSERT INTO user_group (user_group_name,prefecture_code,city_code,version_no,create_date,created_by,update_date,updated_by,delete_flag) "+
			"VALUES ('Test School',13,13101,1,NOW(),'admin',NOW(),'admin',0);",
		lines[1])
	assert.Equal(t, "SET @user_group_id = LAST_INSERT_ID();", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "INSERT INTO users (user_name,password,role_id,"))
	assert.Contains(t, lines[3], "('alice','H1',1,@user_group_id,1,NOW(),'admin',NOW(),'admin',NULL,0),('what?','H2',2,")
	assert.Equal(t, "COMMIT;", lines[4])
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPretty, f)

	f, err = ParseFormat("Compact")
	require.NoError(t, err)
	assert.Equal(t, FormatCompact, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestRenderRejectsMalformedInsert(t *testing.T) {
	var s Script
	s.Add(Insert{Table: "t", Columns: []string{"a", "b"}, Rows: [][]string{{"1"}}})
	_, err := NewRenderer(FormatPretty).Render(s)
	assert.Error(t, err)
	_, err = NewRenderer(FormatCompact).Render(s)
	assert.Error(t, err)
}

func TestParseCode(t *testing.T) {
	tests := map[string]int{
		"13":     13,
		" 13101": 13101,
		"":       0,
		"   ":    0,
		"abc":    0,
		"13abc":  13,
		"-5":     -5,
		"+7":     7,
		"-":      0,
		"０１":     0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseCode(in), "ParseCode(%q)", in)
	}
}

func TestQuoteNullable(t *testing.T) {
	assert.Equal(t, "NULL", QuoteNullable(nil))
	s := "NULL"
	assert.Equal(t, "'NULL'", QuoteNullable(&s))
}
