package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
)

const formatOFX = "ofx"

// OFXParser reads XML OFX bank statements. Every STMTRS aggregate in the document is
// imported; its BANKID and ACCTID identify the source account.
type OFXParser struct{}

type ofxStatement struct {
	BankID       string           `xml:"BANKACCTFROM>BANKID"`
	AcctID       string           `xml:"BANKACCTFROM>ACCTID"`
	Transactions []ofxTransaction `xml:"BANKTRANLIST>STMTTRN"`
}

type ofxTransaction struct {
	Type   string `xml:"TRNTYPE"`
	Posted string `xml:"DTPOSTED"`
	Amount string `xml:"TRNAMT"`
	FITID  string `xml:"FITID"`
	RefNum string `xml:"REFNUM"`
	Name   string `xml:"NAME"`
	Payee  string `xml:"PAYEE"`
	Memo   string `xml:"MEMO"`
}

// Format returns the parser name.
func (p *OFXParser) Format() string { return formatOFX }

// Parse walks the document for STMTRS elements wherever they are nested.
func (p *OFXParser) Parse(r io.Reader) ([]Record, error) {
	dec := xml.NewDecoder(r)

	var records []Record
	statements := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewImportFormatError(formatOFX, fmt.Sprintf("offset %d", dec.InputOffset()), err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "STMTRS" {
			continue
		}

		statements++
		var stmt ofxStatement
		if err := dec.DecodeElement(&stmt, &start); err != nil {
			return nil, apperrors.NewImportFormatError(formatOFX, fmt.Sprintf("STMTRS %d", statements), err)
		}
		stmtRecords, err := stmt.records(statements)
		if err != nil {
			return nil, err
		}
		records = append(records, stmtRecords...)
	}

	if statements == 0 {
		return nil, apperrors.NewImportFormatError(formatOFX, "", errors.New("no STMTRS statement found"))
	}
	return records, nil
}

func (s ofxStatement) records(index int) ([]Record, error) {
	acctID := strings.TrimSpace(s.AcctID)
	if acctID == "" {
		return nil, apperrors.NewImportFormatError(formatOFX, fmt.Sprintf("STMTRS %d", index), errors.New("ACCTID missing"))
	}
	identity := strings.TrimSpace(s.BankID) + acctID
	hint := maskAccountNumber(acctID)

	records := make([]Record, 0, len(s.Transactions))
	for i, trn := range s.Transactions {
		location := fmt.Sprintf("STMTRS %d STMTTRN %d", index, i+1)
		fitid := strings.TrimSpace(trn.FITID)
		if fitid == "" {
			return nil, apperrors.NewImportFormatError(formatOFX, location, errors.New("FITID missing"))
		}
		location += " (FITID " + fitid + ")"

		posted, err := parseOFXDate(trn.Posted)
		if err != nil {
			return nil, apperrors.NewImportFormatError(formatOFX, location, err)
		}
		amount, err := parseAmount(trn.Amount)
		if err != nil {
			return nil, apperrors.NewImportFormatError(formatOFX, location, err)
		}

		records = append(records, Record{
			SourceIdentity: identity,
			ExternalID:     fitid,
			AccountHint:    hint,
			Timestamp:      posted,
			Amount:         amount,
			Memo:           html.UnescapeString(strings.TrimSpace(firstNonEmpty(trn.Memo, trn.Name, trn.Payee))),
			Ref:            strings.TrimSpace(trn.RefNum),
		})
	}
	return records, nil
}

// parseOFXDate understands YYYYMMDD[HHMMSS[.XXX]][gmt offset[:tz name]], e.g.
// "20240131120000.000[-5:EST]". Without an offset the time is UTC.
func parseOFXDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	loc := time.UTC

	if i := strings.IndexByte(value, '['); i >= 0 {
		zone := strings.TrimSuffix(value[i+1:], "]")
		value = value[:i]
		offset := zone
		if j := strings.IndexByte(zone, ':'); j >= 0 {
			offset = zone[:j]
		}
		hours, err := strconv.ParseFloat(offset, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing DTPOSTED zone %q: %w", raw, err)
		}
		loc = time.FixedZone(zone, int(hours*3600))
	}
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}

	var layout string
	switch len(value) {
	case 14:
		layout = "20060102150405"
	case 12:
		layout = "200601021504"
	case 8:
		layout = "20060102"
	default:
		return time.Time{}, fmt.Errorf("parsing DTPOSTED %q: unexpected length", raw)
	}
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing DTPOSTED %q: %w", raw, err)
	}
	return t.UTC(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
