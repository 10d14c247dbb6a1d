package dataset

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	errx "github.com/insightxpress/server/internal/core/error"
	logx "github.com/insightxpress/server/pkg/logger"
)

// MaxUploadBytes caps uploaded workbooks before any parsing happens.
const MaxUploadBytes = 2 << 20 // 2 MiB

const (
	tooLargeMessage    = "Arquivo muito grande. O limite é de 2MB."
	unsupportedMessage = "Formato de arquivo não suportado. Envie uma planilha .xlsx ou .xls."
	parseErrorMessage  = "Erro ao ler o arquivo Excel"
	noSheetMessage     = "A planilha enviada não contém nenhuma aba."
)

// Read parses an uploaded spreadsheet workbook into a Table. The size cap is
// enforced before parsing; only the first sheet is read and its first row
// becomes the header. Failures are descriptive and non-fatal so the caller
// can leave prior state intact.
func Read(filename string, data []byte) (*Table, error) {
	if len(data) > MaxUploadBytes {
		return nil, errx.New(nil, errx.KindInputRejected, tooLargeMessage)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		return nil, errx.New(nil, errx.KindInputRejected, unsupportedMessage)
	}
	if err != nil {
		logx.Warn().Err(err).Str("filename", filename).Msg("failed to parse workbook")
		return nil, errx.New(err, errx.KindUnexpected, parseErrorMessage)
	}

	return fromRows(rows), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errx.New(nil, errx.KindUnexpected, noSheetMessage)
	}
	return f.GetRows(sheets[0])
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errx.New(nil, errx.KindUnexpected, noSheetMessage)
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// fromRows builds a Table from raw sheet rows: first row is the header, the
// rest are data. Ragged rows are padded to the header width.
func fromRows(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(header))
		for i := range header {
			if i < len(row) {
				cells[i] = row[i]
			}
		}
		data = append(data, cells)
	}
	return &Table{Columns: header, Rows: data}
}
