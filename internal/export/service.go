// Package export bundles the files behind documents and ledger receipts into
// zip packets for owners, accountants and applicants.
package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/tenantry/internal/document"
	"github.com/MrJamesThe3rd/tenantry/internal/transaction"
)

const summaryFile = "summary.txt"

type Documents interface {
	List(ctx context.Context, filter document.ListFilter) ([]*document.Document, error)
}

type Ledger interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

// Item is one line of a packet summary.
type Item struct {
	Date     time.Time
	Label    string
	Category string
	Amount   *int64 // signed cents, ledger packets only
	URL      string
	File     string // path inside the zip, empty when nothing was stored
	Missing  string // why the file could not be fetched
}

type Service struct {
	documents Documents
	ledger    Ledger
	client    *http.Client
	apiToken  string
}

// NewService creates an export service. apiToken, when set, is sent to the
// file host as "Authorization: Token <apiToken>".
func NewService(documents Documents, ledger Ledger, apiToken string) *Service {
	return &Service{
		documents: documents,
		ledger:    ledger,
		client:    &http.Client{Timeout: 30 * time.Second},
		apiToken:  apiToken,
	}
}

// DocumentPacket writes a zip of every document matching filter to w, one
// folder per category, plus a summary.
func (s *Service) DocumentPacket(ctx context.Context, filter document.ListFilter, w io.Writer) ([]Item, error) {
	docs, err := s.documents.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	items := make([]Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, Item{
			Date:     d.CreatedAt,
			Label:    d.Name,
			Category: string(d.Category),
			URL:      d.URL,
		})
	}

	return s.write(ctx, items, w)
}

// ReceiptPacket writes a zip of the receipts of every ledger entry matching
// filter. Entries without a receipt are listed in the summary only.
func (s *Service) ReceiptPacket(ctx context.Context, filter transaction.ListFilter, w io.Writer) ([]Item, error) {
	txs, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	items := make([]Item, 0, len(txs))

	for _, tx := range txs {
		item := Item{
			Date:     tx.Date,
			Label:    tx.Description,
			Category: tx.Category,
			Amount:   new(tx.Signed()),
		}

		if tx.Receipt != nil {
			item.URL = tx.Receipt.URL
		}

		items = append(items, item)
	}

	return s.write(ctx, items, w)
}

func (s *Service) write(ctx context.Context, items []Item, w io.Writer) ([]Item, error) {
	zw := zip.NewWriter(w)
	used := make(map[string]int)

	for i := range items {
		if items[i].URL == "" {
			continue
		}

		if err := s.store(ctx, zw, &items[i], used); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			items[i].Missing = err.Error()
		}
	}

	sw, err := zw.Create(summaryFile)
	if err != nil {
		return nil, fmt.Errorf("creating summary: %w", err)
	}

	if _, err := io.WriteString(sw, Summary(items)); err != nil {
		return nil, fmt.Errorf("writing summary: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip: %w", err)
	}

	return items, nil
}

var errUnexpectedStatus = errors.New("unexpected status")

// store downloads item.URL into the zip and records where it went.
func (s *Service) store(ctx context.Context, zw *zip.Writer, item *Item, used map[string]int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if s.apiToken != "" {
		req.Header.Set("Authorization", "Token "+s.apiToken)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w %d", errUnexpectedStatus, resp.StatusCode)
	}

	folder := item.Category
	if folder == "" {
		folder = "uncategorized"
	}

	name := unique(path.Join(sanitize(folder), filename(resp, item)), used)

	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}

	if _, err := io.Copy(fw, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	item.File = name

	return nil
}

// filename prefers the server's Content-Disposition name and otherwise builds
// one from the date and label.
func filename(resp *http.Response, item *Item) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return sanitize(path.Base(params["filename"]))
		}
	}

	label := item.Label
	ext := path.Ext(label)

	if ext == "" {
		ext = ".pdf"

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			if exts, _ := mime.ExtensionsByType(ct); len(exts) > 0 {
				ext = exts[0]
			}
		}
	} else {
		label = strings.TrimSuffix(label, ext)
	}

	return fmt.Sprintf("%s_%s%s", item.Date.Format("20060102"), sanitize(label), ext)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}

		return '_'
	}, s)
}

// unique suffixes repeated names as "name-2.ext", "name-3.ext".
func unique(name string, used map[string]int) string {
	used[name]++
	if used[name] == 1 {
		return name
	}

	ext := path.Ext(name)

	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), used[name], ext)
}

var printer = message.NewPrinter(language.AmericanEnglish)

// Summary renders one line per item:
//
//	* 2026-10-01 | Rent | October rent | +$1,850.00 | receipts/20261001_rent.pdf
func Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		fields := []string{item.Date.Format(time.DateOnly)}

		if item.Category != "" {
			fields = append(fields, item.Category)
		}

		fields = append(fields, item.Label)

		if item.Amount != nil {
			fields = append(fields, formatAmount(*item.Amount))
		}

		switch {
		case item.File != "":
			fields = append(fields, item.File)
		case item.Missing != "":
			fields = append(fields, "unavailable ("+item.Missing+")")
		default:
			fields = append(fields, "no file")
		}

		sb.WriteString("* " + strings.Join(fields, " | ") + "\n")
	}

	return sb.String()
}

func formatAmount(cents int64) string {
	sign := "+"
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return sign + printer.Sprintf("$%.2f", float64(cents)/100)
}
