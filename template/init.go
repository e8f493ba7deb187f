package template

import (
	"encoding/json"
	"fmt"

	"github.com/Rana718/acctgen/internal/config"
)

// ProjectTemplate renders the files written by `acctgen init`.
type ProjectTemplate struct {
	cfg *config.Config
}

func NewProjectTemplate(cfg *config.Config) *ProjectTemplate {
	return &ProjectTemplate{cfg: cfg}
}

func (pt *ProjectTemplate) GetConfig() (string, error) {
	data, err := json.MarshalIndent(pt.cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data) + "\n", nil
}

// GetSchema returns reference MySQL DDL for every table the generated
// scripts write to.
func (pt *ProjectTemplate) GetSchema() string {
	return `-- Reference schema for the tables targeted by the generated scripts.

CREATE TABLE user_group (
    user_group_id INT AUTO_INCREMENT PRIMARY KEY,
    user_group_name VARCHAR(255) NOT NULL,
    prefecture_code INT NOT NULL DEFAULT 0,
    city_code INT NOT NULL DEFAULT 0,
    version_no INT NOT NULL DEFAULT 1,
    create_date DATETIME NOT NULL,
    created_by VARCHAR(64) NOT NULL,
    update_date DATETIME NOT NULL,
    updated_by VARCHAR(64) NOT NULL,
    delete_flag TINYINT NOT NULL DEFAULT 0
);

CREATE TABLE users (
    user_id INT AUTO_INCREMENT PRIMARY KEY,
    user_name VARCHAR(255) NOT NULL,
    password VARCHAR(255) NOT NULL,
    role_id INT NOT NULL,
    user_group_id INT NOT NULL,
    version_no INT NOT NULL DEFAULT 1,
    create_date DATETIME NOT NULL,
    created_by VARCHAR(64) NOT NULL,
    update_date DATETIME NOT NULL,
    updated_by VARCHAR(64) NOT NULL,
    delete_date DATETIME NULL,
    delete_flag TINYINT NOT NULL DEFAULT 0,
    FOREIGN KEY (user_group_id) REFERENCES user_group (user_group_id)
);

-- member_roles rows reference @first_member_id + n; keep auto-increment ids consecutive.
CREATE TABLE member (
    member_id INT AUTO_INCREMENT PRIMARY KEY,
    login_id VARCHAR(255) NOT NULL,
    member_type CHAR(1) NOT NULL,
    member_attribute CHAR(1) NOT NULL,
    member_name VARCHAR(255) NOT NULL,
    company_name VARCHAR(255) NOT NULL,
    zip_code VARCHAR(16) NOT NULL,
    prefecture_code INT NOT NULL,
    city_name VARCHAR(255) NOT NULL,
    address VARCHAR(255) NOT NULL,
    phone_number VARCHAR(32) NOT NULL,
    mail_address VARCHAR(255) NOT NULL,
    registration_date DATETIME NOT NULL,
    password VARCHAR(255) NOT NULL,
    def_prefecture_code INT NOT NULL,
    def_administrative_area_code INT NOT NULL,
    last_login_date DATETIME NULL,
    failure_login_count CHAR(1) NOT NULL DEFAULT '0',
    expiration_date DATETIME NULL,
    login_flag CHAR(1) NOT NULL DEFAULT '0',
    create_date DATETIME NOT NULL,
    update_date DATETIME NOT NULL,
    delete_date DATETIME NULL,
    delete_flag CHAR(1) NOT NULL DEFAULT '0'
);

CREATE TABLE member_roles (
    member_id INT NOT NULL,
    role VARCHAR(32) NOT NULL,
    create_date DATETIME NOT NULL,
    update_date DATETIME NOT NULL,
    PRIMARY KEY (member_id, role),
    FOREIGN KEY (member_id) REFERENCES member (member_id)
);

CREATE TABLE member_role_periods (
    member_id INT NOT NULL,
    role VARCHAR(32) NOT NULL,
    period_from DATETIME NULL,
    period_to DATETIME NULL,
    status INT NOT NULL,
    create_date DATETIME NOT NULL,
    update_date DATETIME NOT NULL,
    FOREIGN KEY (member_id) REFERENCES member (member_id)
);
`
}

// GetJobExample is a starter job file for `acctgen generate --job`.
func (pt *ProjectTemplate) GetJobExample() string {
	return fmt.Sprintf(`organization_name: サンプル学校
pref_code: "%s"
municipality_code: "%s"
start_date: "2025-04-01"
end_date: "2026-03-31"
teachers:
  - user_id: T001
    user_name: 山田 太郎
    password: changeme
students:
  - user_id: S001
    user_name: 佐藤 花子
  - user_id: S002
    user_name: 鈴木 一郎
`, pt.cfg.Organization.PrefCode, pt.cfg.Organization.CityCode)
}

func (pt *ProjectTemplate) GetEnvTemplate() string {
	return "# ACCTGEN_HASH_COST=12\n# ACCTGEN_MEMBERS_MAIL_DOMAIN=example.jp\n# ACCTGEN_LOG_LEVEL=debug\n"
}

// File is one path written by init and its content.
type File struct {
	Path    string
	Content string
}

func (pt *ProjectTemplate) Files() ([]File, error) {
	cfgJSON, err := pt.GetConfig()
	if err != nil {
		return nil, err
	}
	return []File{
		{Path: config.FileName, Content: cfgJSON},
		{Path: "schema/reference.sql", Content: pt.GetSchema()},
		{Path: "jobs/example.yaml", Content: pt.GetJobExample()},
		{Path: ".env.example", Content: pt.GetEnvTemplate()},
	}, nil
}

func (pt *ProjectTemplate) GetDirectoryStructure() []string {
	return []string{"schema", "jobs"}
}
