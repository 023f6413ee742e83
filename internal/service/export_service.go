package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/Trade-Journal-Backend/internal/apperrors"
	"github.com/ndewijer/Trade-Journal-Backend/internal/format"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
	"github.com/ndewijer/Trade-Journal-Backend/internal/repository"
	"github.com/ndewijer/Trade-Journal-Backend/internal/validation"
)

const (
	exportTimeLayout = "2006-01-02 15:04:05"
	utf8BOM          = "\uFEFF"
)

var exportHeaders = []string{
	"股票代码",
	"股票名称",
	"交易类型",
	"数量",
	"价格",
	"手续费",
	"交易时间",
	"买入理由标签",
	"买入理由备注",
	"卖出理由标签",
	"卖出理由备注",
	"剩余数量",
}

// ExportService writes a user's transactions as a spreadsheet-friendly CSV file.
type ExportService struct {
	transactionRepo *repository.TransactionRepository
	location        *time.Location
}

// NewExportService creates a new ExportService rendering timestamps in loc.
func NewExportService(transactionRepo *repository.TransactionRepository, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.Local
	}
	return &ExportService{transactionRepo: transactionRepo, location: loc}
}

// Filename returns the download name of an export made at t.
func (s *ExportService) Filename(t time.Time) string {
	return "股票交易记录_" + t.In(s.location).Format("2006-01-02") + ".csv"
}

// ContentDisposition returns the attachment header for filename, with an
// ASCII fallback and the RFC 5987 encoded UTF-8 name.
func ContentDisposition(filename string) string {
	return fmt.Sprintf(`attachment; filename="transactions.csv"; filename*=UTF-8''%s`, url.PathEscape(filename))
}

// Export writes every transaction of the user, newest first, and returns the number of rows.
func (s *ExportService) Export(ctx context.Context, userID string, w io.Writer) (int, error) {
	transactions, err := s.transactionRepo.GetTransactionResponses(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToExport, err)
	}
	if err := WriteTransactionsCSV(w, transactions, s.location); err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToExport, err)
	}
	return len(transactions), nil
}

// WriteTransactionsCSV writes the transactions in the given order.
//
// The output starts with a UTF-8 byte order mark, every field is quoted and
// rows end with a bare newline. Text cells are guarded against formula injection.
func WriteTransactionsCSV(w io.Writer, transactions []model.TransactionResponse, loc *time.Location) error {
	var b strings.Builder
	b.WriteString(utf8BOM)
	writeRow(&b, exportHeaders)
	for _, t := range transactions {
		b.WriteByte('\n')
		writeRow(&b, exportRow(t, loc))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func exportRow(t model.TransactionResponse, loc *time.Location) []string {
	kind := "卖出"
	if t.IsBuy() {
		kind = "买入"
	}

	remaining := ""
	if t.Remaining != nil {
		remaining = fmt.Sprintf("%d", *t.Remaining)
	}

	return []string{
		validation.SanitizeForFormulaInjection(t.StockCode),
		validation.SanitizeForFormulaInjection(t.StockName),
		kind,
		fmt.Sprintf("%d", t.Quantity),
		format.Plain(t.Price),
		format.Plain(t.Fee),
		t.Timestamp.In(loc).Format(exportTimeLayout),
		reasonTags(t.BuyReason),
		reasonNote(t.BuyReason),
		reasonTags(t.SellReason),
		reasonNote(t.SellReason),
		remaining,
	}
}

func reasonTags(r *model.Reason) string {
	if r == nil {
		return ""
	}
	tags := make([]string, len(r.Tags))
	for i, tag := range r.Tags {
		tags[i] = validation.SanitizeForFormulaInjection(tag)
	}
	return strings.Join(tags, ";")
}

func reasonNote(r *model.Reason) string {
	if r == nil {
		return ""
	}
	return validation.SanitizeForFormulaInjection(r.Note)
}

func writeRow(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
}
