package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
)

const formatAmazonCSV = "amazon-csv"

// Amazon order history columns.
const (
	amazonColOrderDate = "Order Date"
	amazonColOrderID   = "Order ID"
	amazonColTitle     = "Title"
	amazonColSubtotal  = "Item Subtotal"
)

var amazonDateLayouts = []string{"01/02/06", "01/02/2006", "2006-01-02", time.RFC3339}

// AmazonCSVParser reads Amazon order history item reports. Each row is one item; the
// order id and title together identify it.
type AmazonCSVParser struct{}

// Format returns the parser name.
func (p *AmazonCSVParser) Format() string { return formatAmazonCSV }

// Parse reads the whole CSV; the first row must be the header.
func (p *AmazonCSVParser) Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, apperrors.NewImportFormatError(formatAmazonCSV, "", fmt.Errorf("reading CSV: %w", err))
	}
	if len(rows) == 0 {
		return nil, apperrors.NewImportFormatError(formatAmazonCSV, "", errors.New("missing header row"))
	}

	cols, err := columnIndex(rows[0], amazonColOrderDate, amazonColOrderID, amazonColTitle, amazonColSubtotal)
	if err != nil {
		return nil, apperrors.NewImportFormatError(formatAmazonCSV, "row 1", err)
	}

	var records []Record
	for i, row := range rows[1:] {
		location := fmt.Sprintf("row %d", i+2)

		orderDate, err := parseFirstLayout(row[cols[amazonColOrderDate]], amazonDateLayouts)
		if err != nil {
			return nil, apperrors.NewImportFormatError(formatAmazonCSV, location, err)
		}
		amount, err := parseAmount(row[cols[amazonColSubtotal]])
		if err != nil {
			return nil, apperrors.NewImportFormatError(formatAmazonCSV, location, err)
		}

		orderID := strings.TrimSpace(row[cols[amazonColOrderID]])
		title := row[cols[amazonColTitle]]
		if orderID == "" {
			return nil, apperrors.NewImportFormatError(formatAmazonCSV, location, errors.New("order id missing"))
		}

		records = append(records, Record{
			SourceIdentity: orderID + title,
			Timestamp:      orderDate,
			Amount:         amount,
			Memo:           html.UnescapeString(title),
			Ref:            orderID,
		})
	}
	return records, nil
}

// columnIndex maps each wanted header to its position. A UTF-8 BOM on the first header is ignored.
func columnIndex(header []string, wanted ...string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		positions[strings.TrimSpace(name)] = i
	}

	cols := make(map[string]int, len(wanted))
	var missing []string
	for _, name := range wanted {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseFirstLayout(raw string, layouts []string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: no known layout matches", raw)
}
