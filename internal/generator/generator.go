package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Rana718/acctgen/internal/grid"
	"github.com/Rana718/acctgen/internal/metrics"
	"github.com/Rana718/acctgen/internal/sqlgen"
)

const (
	// NoOrganizationPlaceholder replaces the logins script when no organization name was given.
	NoOrganizationPlaceholder = "-- 組織名を入力してください"

	// GenericErrorMessage is the only failure text shown to users.
	GenericErrorMessage = "処理中にエラーが発生しました。詳細はログを確認してください。"

	DefaultPassword = "password"
)

var ErrGenerationFailed = errors.New("generation failed")

type Hasher interface {
	Hash(plaintext string) (string, error)
}

type Request struct {
	OrganizationName string            `json:"organizationName" yaml:"organization_name"`
	PrefCode         string            `json:"prefCode" yaml:"pref_code"`
	MunicipalityCode string            `json:"municipalityCode" yaml:"municipality_code"`
	StartDate        string            `json:"startDate" yaml:"start_date"`
	EndDate          string            `json:"endDate" yaml:"end_date"`
	Teachers         []grid.AccountRow `json:"teachers" yaml:"teachers"`
	Students         []grid.AccountRow `json:"students" yaml:"students"`
}

type Result struct {
	OrganizationName string `json:"organizationName"`
	UsersSQL         string `json:"usersSql"`
	MembersSQL       string `json:"membersSql"`
	Accounts         int    `json:"accounts"`
}

type Options struct {
	Format          sqlgen.Format
	Facility        sqlgen.Facility
	DefaultPassword string
	Workers         int
	Metrics         *metrics.Recorder
	Logger          *logrus.Entry
}

type Service struct {
	hasher          Hasher
	sql             *sqlgen.Generator
	mailDomain      string
	defaultPassword string
	workers         int
	metrics         *metrics.Recorder
	log             *logrus.Entry
}

func New(h Hasher, opts Options) *Service {
	if opts.DefaultPassword == "" {
		opts.DefaultPassword = DefaultPassword
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		hasher:          h,
		sql:             sqlgen.New(opts.Format, opts.Facility),
		mailDomain:      opts.Facility.MailDomain,
		defaultPassword: opts.DefaultPassword,
		workers:         opts.Workers,
		metrics:         opts.Metrics,
		log:             opts.Logger.WithField("component", "generator"),
	}
}

// Generate produces both scripts. Output is all-or-nothing: on failure the
// returned error wraps ErrGenerationFailed and the result is empty.
func (s *Service) Generate(ctx context.Context, req Request) (res Result, err error) {
	// The name is emitted as typed; only an empty field counts as missing.
	org := req.OrganizationName
	if org == "" {
		s.metrics.Generation(metrics.OutcomeNoOrg)
		s.log.Debug("organization name missing, skipping synthesis")
		return Result{UsersSQL: NoOrganizationPlaceholder}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrGenerationFailed, r)
			res = Result{}
		}
		if err != nil {
			s.metrics.Generation(metrics.OutcomeFailed)
			s.log.WithError(err).WithField("organization", org).Error("failed to generate SQL")
		}
	}()

	rows := make([]grid.AccountRow, 0, len(req.Teachers)+len(req.Students))
	rows = append(rows, withRole(grid.NonBlank(req.Teachers), grid.Teacher)...)
	rows = append(rows, withRole(grid.NonBlank(req.Students), grid.Student)...)

	accounts, err := s.hashAll(ctx, rows)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	pref := sqlgen.ParseCode(req.PrefCode)
	city := sqlgen.ParseCode(req.MunicipalityCode)

	users, err := s.sql.OrganizationAndLogins(sqlgen.UsersInput{
		OrganizationName: org,
		PrefCode:         pref,
		CityCode:         city,
		Accounts:         accounts,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to render users script: %w", ErrGenerationFailed, err)
	}

	members, err := s.sql.Members(sqlgen.MembersInput{
		OrganizationName: org,
		PrefCode:         pref,
		CityCode:         city,
		Accounts:         accounts,
		PeriodStart:      strings.TrimSpace(req.StartDate),
		PeriodEnd:        strings.TrimSpace(req.EndDate),
		MailDomain:       s.mailDomain,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: failed to render members script: %w", ErrGenerationFailed, err)
	}

	s.metrics.Generation(metrics.OutcomeOK)
	s.log.WithFields(logrus.Fields{
		"organization": org,
		"accounts":     len(accounts),
	}).Info("generated SQL scripts")

	return Result{
		OrganizationName: org,
		UsersSQL:         users,
		MembersSQL:       members,
		Accounts:         len(accounts),
	}, nil
}

func withRole(rows []grid.AccountRow, role grid.Role) []grid.AccountRow {
	for i := range rows {
		rows[i].Role = role
	}
	return rows
}

// hashAll hashes every password once with a bounded pool. The same hash feeds
// both scripts so users.password and member.password always agree.
func (s *Service) hashAll(ctx context.Context, rows []grid.AccountRow) ([]sqlgen.Account, error) {
	accounts := make([]sqlgen.Account, len(rows))
	if len(rows) == 0 {
		return accounts, nil
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, row := range rows {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("hasher panicked for %q: %v", row.UserID, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			password := row.Password
			if password == "" {
				password = s.defaultPassword
			}
			hash, err := s.hasher.Hash(password)
			if err != nil {
				return fmt.Errorf("failed to hash password for %q: %w", row.UserID, err)
			}
			accounts[i] = sqlgen.Account{
				UserID:       row.UserID,
				UserName:     row.UserName,
				PasswordHash: hash,
				Role:         roleID(row.Role),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.HashBatch(len(rows), time.Since(start))
	return accounts, nil
}

func roleID(r grid.Role) sqlgen.RoleID {
	if r == grid.Student {
		return sqlgen.RoleStudent
	}
	return sqlgen.RoleTeacher
}

// UserMessage maps a generation error to the text shown by the shells.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return GenericErrorMessage
}
