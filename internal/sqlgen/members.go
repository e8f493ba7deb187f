package sqlgen

import (
	"fmt"
	"strings"
)

// NoMembersPlaceholder is returned instead of a script when there are no accounts.
const NoMembersPlaceholder = "-- メンバーがありません"

// Facility holds the contact fields shared by every generated member. They are
// stand-ins, not per-user data.
type Facility struct {
	MailDomain string
	ZipCode    string
	CityName   string
	Address    string
	Phone      string
}

var DefaultFacility = Facility{
	MailDomain: "kankouyohou.com",
	ZipCode:    "105-0001",
	CityName:   "港区",
	Address:    "虎ノ門3-1-1",
	Phone:      "012-345-6789",
}

// withDefaults fills empty fields from DefaultFacility.
func (f Facility) withDefaults() Facility {
	if f.MailDomain == "" {
		f.MailDomain = DefaultFacility.MailDomain
	}
	if f.ZipCode == "" {
		f.ZipCode = DefaultFacility.ZipCode
	}
	if f.CityName == "" {
		f.CityName = DefaultFacility.CityName
	}
	if f.Address == "" {
		f.Address = DefaultFacility.Address
	}
	if f.Phone == "" {
		f.Phone = DefaultFacility.Phone
	}
	return f
}

type MembersInput struct {
	OrganizationName string
	PrefCode         int
	CityCode         int
	Accounts         []Account
	// PeriodStart and PeriodEnd are ISO dates; empty means NULL.
	PeriodStart string
	PeriodEnd   string
	// MailDomain overrides the facility mail domain when set.
	MailDomain string
}

var memberColumns = []string{
	"login_id",
	"member_type",
	"member_attribute",
	"member_name",
	"company_name",
	"zip_code",
	"prefecture_code",
	"city_name",
	"address",
	"phone_number",
	"mail_address",
	"registration_date",
	"password",
	"def_prefecture_code",
	"def_administrative_area_code",
	"last_login_date",
	"failure_login_count",
	"expiration_date",
	"login_flag",
	"create_date",
	"update_date",
	"delete_date",
	"delete_flag",
}

var memberRoleColumns = []string{
	"member_id",
	"role",
	"create_date",
	"update_date",
}

var memberRolePeriodColumns = []string{
	"member_id",
	"role",
	"period_from",
	"period_to",
	"status",
	"create_date",
	"update_date",
}

const (
	memberRoleUser    = "USER"
	memberRoleGeneral = "GENERAL"
	periodStatus      = "2"
)

// periodBound turns an ISO date into a midnight timestamp, or nil when empty.
func periodBound(date string) *string {
	if date == "" {
		return nil
	}
	ts := date + " 00:00:00"
	return &ts
}

// memberKey is the id of the i-th member of the batch. It relies on the
// database assigning consecutive ascending ids to one multi-row insert.
func memberKey(i int) string {
	return fmt.Sprintf("(@first_member_id + %d)", i)
}

// MembersScript builds member, member_roles and member_role_periods rows for
// every account. The second return value is false when there are no accounts,
// in which case no script exists and NoMembersPlaceholder should be shown.
func MembersScript(in MembersInput, facility Facility) (Script, bool) {
	if len(in.Accounts) == 0 {
		return Script{}, false
	}

	f := facility.withDefaults()
	if in.MailDomain != "" {
		f.MailDomain = in.MailDomain
	}
	periodFrom := periodBound(in.PeriodStart)
	periodTo := periodBound(in.PeriodEnd)
	expiration := periodTo

	members := make([][]string, 0, len(in.Accounts))
	roles := make([][]string, 0, 2*len(in.Accounts))
	periods := make([][]string, 0, len(in.Accounts))

	for i, a := range in.Accounts {
		members = append(members, []string{
			Quote(a.UserID),
			Quote("0"),
			Quote("0"),
			Quote(strings.TrimSpace(a.UserName)),
			Quote(in.OrganizationName),
			Quote(f.ZipCode),
			Int(in.PrefCode),
			Quote(f.CityName),
			Quote(f.Address),
			Quote(f.Phone),
			Quote(a.UserID + "@" + f.MailDomain),
			Now,
			Quote(a.PasswordHash),
			Int(in.PrefCode),
			Int(in.CityCode),
			Null,
			Quote("0"),
			QuoteNullable(expiration),
			Quote("0"),
			Now,
			Now,
			Null,
			Quote("0"),
		})

		key := memberKey(i)
		roles = append(roles,
			[]string{key, Quote(memberRoleUser), Now, Now},
			[]string{key, Quote(memberRoleGeneral), Now, Now},
		)
		periods = append(periods, []string{
			key,
			Quote(memberRoleGeneral),
			QuoteNullable(periodFrom),
			QuoteNullable(periodTo),
			periodStatus,
			Now,
			Now,
		})
	}

	var script Script
	script.Add(Insert{Table: "member", Columns: memberColumns, Rows: members})
	script.Add(captureLastInsertID("first_member_id"))
	script.Add(Insert{Table: "member_roles", Columns: memberRoleColumns, Rows: roles, RowsPerLine: 2})
	script.Add(Insert{Table: "member_role_periods", Columns: memberRolePeriodColumns, Rows: periods})
	return script, true
}
