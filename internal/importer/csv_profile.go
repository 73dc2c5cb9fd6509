package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// CSVProfile describes a bank CSV export by its header names.
type CSVProfile struct {
	Name             string   `yaml:"name" validate:"required,excludesall= "`
	Delimiter        string   `yaml:"delimiter" validate:"omitempty,len=1"`
	DateColumn       string   `yaml:"date_column" validate:"required"`
	DateLayouts      []string `yaml:"date_layouts" validate:"required,min=1,dive,required"`
	AmountColumn     string   `yaml:"amount_column" validate:"required"`
	NegateAmount     bool     `yaml:"negate_amount"`
	MemoColumn       string   `yaml:"memo_column" validate:"required"`
	RefColumn        string   `yaml:"ref_column"`
	ExternalIDColumn string   `yaml:"external_id_column"`
	IdentityColumns  []string `yaml:"identity_columns" validate:"required_without=ExternalIDColumn,dive,required"`
	AccountHint      string   `yaml:"account_hint"`
}

// ProfileFile is the top level of an import profiles YAML file.
type ProfileFile struct {
	Profiles []CSVProfile `yaml:"profiles" validate:"required,min=1,dive"`
}

// CSVProfileParser parses documents described by one CSVProfile.
type CSVProfileParser struct {
	profile CSVProfile
}

var profileValidator = validator.New(validator.WithRequiredStructEnabled())

// NewCSVProfileParser validates the profile and returns a parser for it.
func NewCSVProfileParser(profile CSVProfile) (*CSVProfileParser, error) {
	if err := profileValidator.Struct(profile); err != nil {
		return nil, fmt.Errorf("profile %q: %w", profile.Name, err)
	}
	return &CSVProfileParser{profile: profile}, nil
}

// LoadProfiles reads and validates a profiles YAML file. Unknown keys are rejected.
func LoadProfiles(path string) ([]*CSVProfileParser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}
	return ParseProfiles(data)
}

// ParseProfiles decodes profiles from YAML.
func ParseProfiles(data []byte) ([]*CSVProfileParser, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file ProfileFile
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse profiles YAML: %w", err)
	}
	if err := profileValidator.Struct(file); err != nil {
		return nil, fmt.Errorf("invalid profiles file: %w", err)
	}

	parsers := make([]*CSVProfileParser, 0, len(file.Profiles))
	for _, profile := range file.Profiles {
		parser, err := NewCSVProfileParser(profile)
		if err != nil {
			return nil, err
		}
		parsers = append(parsers, parser)
	}
	return parsers, nil
}

// RegisterProfiles loads a profiles file into the registry.
func RegisterProfiles(r *Registry, path string) error {
	parsers, err := LoadProfiles(path)
	if err != nil {
		return err
	}
	for _, p := range parsers {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// Format returns the profile name.
func (p *CSVProfileParser) Format() string { return p.profile.Name }

// Parse reads the whole CSV; the first row must be the header.
func (p *CSVProfileParser) Parse(r io.Reader) ([]Record, error) {
	format := p.Format()
	cr := csv.NewReader(r)
	if p.profile.Delimiter != "" {
		cr.Comma, _ = utf8.DecodeRuneInString(p.profile.Delimiter)
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewImportFormatError(format, "", fmt.Errorf("reading CSV: %w", err))
	}
	if len(rows) == 0 {
		return nil, apperrors.NewImportFormatError(format, "", errors.New("missing header row"))
	}

	wanted := []string{p.profile.DateColumn, p.profile.AmountColumn, p.profile.MemoColumn}
	for _, optional := range []string{p.profile.RefColumn, p.profile.ExternalIDColumn} {
		if optional != "" {
			wanted = append(wanted, optional)
		}
	}
	wanted = append(wanted, p.profile.IdentityColumns...)
	cols, err := columnIndex(rows[0], wanted...)
	if err != nil {
		return nil, apperrors.NewImportFormatError(format, "row 1", err)
	}

	var records []Record
	for i, row := range rows[1:] {
		rec, err := p.parseRow(row, cols)
		if err != nil {
			return nil, apperrors.NewImportFormatError(format, fmt.Sprintf("row %d", i+2), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (p *CSVProfileParser) parseRow(row []string, cols map[string]int) (Record, error) {
	date, err := parseFirstLayout(row[cols[p.profile.DateColumn]], p.profile.DateLayouts)
	if err != nil {
		return Record{}, err
	}
	amount, err := parseAmount(row[cols[p.profile.AmountColumn]])
	if err != nil {
		return Record{}, err
	}
	if p.profile.NegateAmount {
		amount = amount.Neg()
	}

	identity := make([]string, 0, len(p.profile.IdentityColumns))
	for _, col := range p.profile.IdentityColumns {
		identity = append(identity, strings.TrimSpace(row[cols[col]]))
	}

	rec := Record{
		SourceIdentity: p.profile.Name + "|" + strings.Join(identity, "|"),
		AccountHint:    p.profile.AccountHint,
		Timestamp:      date,
		Amount:         amount,
		Memo:           html.UnescapeString(strings.TrimSpace(row[cols[p.profile.MemoColumn]])),
	}
	if p.profile.RefColumn != "" {
		rec.Ref = strings.TrimSpace(row[cols[p.profile.RefColumn]])
	}
	if p.profile.ExternalIDColumn != "" {
		rec.ExternalID = strings.TrimSpace(row[cols[p.profile.ExternalIDColumn]])
		if rec.ExternalID == "" {
			return Record{}, fmt.Errorf("%s is empty", p.profile.ExternalIDColumn)
		}
	}
	return rec, nil
}
