package sqlgen

// RoleID is the numeric role written to users.role_id.
type RoleID int

const (
	RoleTeacher RoleID = 1
	RoleStudent RoleID = 2
)

// Account is one non-blank grid row ready for SQL: its password is already hashed.
type Account struct {
	UserID       string
	UserName     string
	PasswordHash string
	Role         RoleID
}

type UsersInput struct {
	OrganizationName string
	PrefCode         int
	CityCode         int
	// Accounts are teachers followed by students, in grid order.
	Accounts []Account
}

const auditUser = "admin"

var userGroupColumns = []string{
	"user_group_name",
	"prefecture_code",
	"city_code",
	"version_no",
	"create_date",
	"created_by",
	"update_date",
	"updated_by",
	"delete_flag",
}

var usersColumns = []string{
	"user_name",
	"password",
	"role_id",
	"user_group_id",
	"version_no",
	"create_date",
	"created_by",
	"update_date",
	"updated_by",
	"delete_date",
	"delete_flag",
}

// UsersScript builds the organization and login records: one user_group row,
// then, when there are accounts, one users row per account pointing at the
// group through @user_group_id.
func UsersScript(in UsersInput) Script {
	var script Script
	script.Add(Insert{
		Table:   "user_group",
		Columns: userGroupColumns,
		Rows: [][]string{{
			Quote(in.OrganizationName),
			Int(in.PrefCode),
			Int(in.CityCode),
			"1",
			Now,
			Quote(auditUser),
			Now,
			Quote(auditUser),
			"0",
		}},
	})

	if len(in.Accounts) == 0 {
		return script
	}

	script.Add(captureLastInsertID("user_group_id"))
	rows := make([][]string, 0, len(in.Accounts))
	for _, a := range in.Accounts {
		rows = append(rows, []string{
			Quote(a.UserID),
			Quote(a.PasswordHash),
			Int(int(a.Role)),
			"@user_group_id",
			"1",
			Now,
			Quote(auditUser),
			Now,
			Quote(auditUser),
			Null,
			"0",
		})
	}
	script.Add(Insert{Table: "users", Columns: usersColumns, Rows: rows})
	return script
}
