package export

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Rana718/acctgen/internal/generator"
)

type Kind string

const (
	KindUsers   Kind = "users"
	KindMembers Kind = "members"
)

var Kinds = []Kind{KindUsers, KindMembers}

var ErrUnknownKind = errors.New("unknown script kind")

func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindUsers:
		return KindUsers, nil
	case KindMembers:
		return KindMembers, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

const (
	fallbackBase = "sql_export"
	maxBaseRunes = 100
)

var notLetterOrNumber = regexp.MustCompile(`[^\p{L}\p{N}]`)

// FileBase turns an organization name into a safe file name stem.
func FileBase(organization string) string {
	base := notLetterOrNumber.ReplaceAllString(strings.TrimSpace(organization), "")
	if r := []rune(base); len(r) > maxBaseRunes {
		base = string(r[:maxBaseRunes])
	}
	if base == "" {
		return fallbackBase
	}
	return base
}

func FileName(organization string, kind Kind) string {
	return fmt.Sprintf("%s_%s.sql", FileBase(organization), kind)
}

// Content returns the script of the given kind from a generation result.
func Content(res generator.Result, kind Kind) (string, error) {
	switch kind {
	case KindUsers:
		return res.UsersSQL, nil
	case KindMembers:
		return res.MembersSQL, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// WriteScripts writes every non-empty script of res into dir and returns the
// written paths in kind order.
func WriteScripts(dir string, res generator.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	var paths []string
	for _, kind := range Kinds {
		content, err := Content(res, kind)
		if err != nil {
			return paths, err
		}
		if content == "" {
			continue
		}

		filePath := filepath.Join(dir, FileName(res.OrganizationName, kind))
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			return paths, fmt.Errorf("failed to write file: %w", err)
		}
		paths = append(paths, filePath)
	}
	return paths, nil
}

// ContentDisposition builds an attachment header that keeps non-ASCII file
// names intact in browsers.
func ContentDisposition(filename string) string {
	return "attachment; filename*=UTF-8''" + url.PathEscape(filename)
}
