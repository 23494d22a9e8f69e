package planilha

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// LinhaFechamento is one validated import row.
type LinhaFechamento struct {
	Linha       int
	Data        time.Time
	CodigoLoja  string
	LojaID      uuid.UUID
	Esperado    decimal.Decimal
	Contado     decimal.Decimal
	Observacoes string
}

// LinhaExportacao is one closing as written to CSV/XLSX.
type LinhaExportacao struct {
	Data        time.Time
	CodigoLoja  string
	NomeLoja    string
	Esperado    decimal.Decimal
	Contado     decimal.Decimal
	Diferenca   decimal.Decimal
	Status      string
	Observacoes string
}

var cabecalhoExportacao = []string{"Data", "Código Loja", "Loja", "Valor Esperado", "Valor Contado", "Diferença", "Status", "Observações"}

var cabecalhoModelo = []string{"Data", "Código Loja", "Valor Esperado", "Valor Contado", "Observações"}

var apelidosFechamento = map[string][]string{
	"data":     {"data", "date"},
	"codigo":   {"codigo loja", "codigo da loja", "loja (codigo)", "store code", "storecode"},
	"esperado": {"valor esperado", "esperado", "expected value", "expectedvalue"},
	"contado":  {"valor contado", "contado", "counted value", "countedvalue"},
	"obs":      {"observacoes", "observacao", "observations"},
}

// posicional is the column order of the import template.
var posicional = map[string]int{"data": 0, "codigo": 1, "esperado": 2, "contado": 3, "obs": 4}

// LerFechamentos parses a closings CSV. Rows that fail date, store or number
// validation are reported in erros and skipped.
func LerFechamentos(r io.Reader, resolver ResolverLoja) (linhas []LinhaFechamento, erros []string, err error) {
	cab, regs, erros, err := lerCSV(r, ';')
	if err != nil {
		return nil, nil, err
	}
	linhas, errosLinhas := fechamentosDeRegistros(cab, regs, resolver, ParseData, ParseValorBR)
	return linhas, append(erros, errosLinhas...), nil
}

// LerFechamentosXLSX parses the first sheet of a workbook with the same rules.
func LerFechamentosXLSX(r io.Reader, resolver ResolverLoja) ([]LinhaFechamento, []string, error) {
	cab, regs, err := lerXLSX(r)
	if err != nil {
		return nil, nil, err
	}
	linhas, erros := fechamentosDeRegistros(cab, regs, resolver, dataXLSX, valorXLSX)
	return linhas, erros, nil
}

// dataXLSX also accepts date cells, which arrive as serial day numbers.
func dataXLSX(s string) (time.Time, error) {
	if t, err := ParseData(s); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q", s)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// valorXLSX parses raw numeric cells and falls back to Brazilian notation for
// values typed as text.
func valorXLSX(s string) (decimal.Decimal, error) {
	if v, err := decimal.NewFromString(s); err == nil {
		return v, nil
	}
	return ParseValorBR(s)
}

func fechamentosDeRegistros(
	cab []string,
	regs []registro,
	resolver ResolverLoja,
	parseData func(string) (time.Time, error),
	parseValor func(string) (decimal.Decimal, error),
) ([]LinhaFechamento, []string) {
	col := mapearColunas(cab, apelidosFechamento, []string{"data", "codigo", "esperado", "contado"})
	minimo := 4
	if col == nil {
		col = posicional
	} else {
		minimo = 0
		for _, k := range []string{"data", "codigo", "esperado", "contado"} {
			if col[k]+1 > minimo {
				minimo = col[k] + 1
			}
		}
	}
	obs, temObs := col["obs"]
	if !temObs {
		obs = -1
	}

	var linhas []LinhaFechamento
	var erros []string
	for _, reg := range regs {
		c := reg.campos
		if len(c) < minimo {
			erros = append(erros, fmt.Sprintf("Linha %d: Número insuficiente de colunas", reg.linha))
			continue
		}

		dataStr := campo(c, col["data"])
		data, err := parseData(dataStr)
		if err != nil {
			erros = append(erros, fmt.Sprintf("Linha %d: Data inválida %q. Use formato DD/MM/YYYY", reg.linha, dataStr))
			continue
		}

		codigo := campo(c, col["codigo"])
		var lojaID uuid.UUID
		if resolver != nil {
			id, err := resolver(codigo)
			if errors.Is(err, ErrLojaAmbigua) {
				erros = append(erros, fmt.Sprintf("Linha %d: Código de loja %q ambíguo", reg.linha, codigo))
				continue
			}
			if err != nil {
				erros = append(erros, fmt.Sprintf("Linha %d: Código de loja %q não encontrado", reg.linha, codigo))
				continue
			}
			lojaID = id
		}

		esperado, errE := parseValor(campo(c, col["esperado"]))
		contado, errC := parseValor(campo(c, col["contado"]))
		if errE != nil || errC != nil {
			erros = append(erros, fmt.Sprintf("Linha %d: Valores numéricos inválidos", reg.linha))
			continue
		}

		linhas = append(linhas, LinhaFechamento{
			Linha:       reg.linha,
			Data:        data,
			CodigoLoja:  codigo,
			LojaID:      lojaID,
			Esperado:    esperado,
			Contado:     contado,
			Observacoes: campo(c, obs),
		})
	}
	return linhas, erros
}

// EscreverFechamentos writes the export CSV (BOM, ';', quoted cells, decimal comma).
func EscreverFechamentos(w io.Writer, linhas []LinhaExportacao) error {
	rows := make([][]string, len(linhas))
	for i, l := range linhas {
		rows[i] = []string{
			l.Data.Format("2006-01-02"),
			l.CodigoLoja,
			l.NomeLoja,
			FormatarValorBR(l.Esperado),
			FormatarValorBR(l.Contado),
			FormatarValorBR(l.Diferenca),
			l.Status,
			l.Observacoes,
		}
	}
	return escreverCSV(w, cabecalhoExportacao, rows)
}

// ModeloFechamentos writes the import template with one example row.
func ModeloFechamentos(w io.Writer) error {
	return escreverCSV(w, cabecalhoModelo, [][]string{
		{"29/12/2024", "JC001", "5000,00", "4980,50", "Exemplo de observação"},
	})
}

// FechamentosXLSX writes the export as a single-sheet workbook.
func FechamentosXLSX(w io.Writer, linhas []LinhaExportacao) error {
	const aba = "Fechamentos"
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", aba); err != nil {
		return fmt.Errorf("planilha: xlsx sheet: %w", err)
	}
	negrito, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("planilha: xlsx style: %w", err)
	}
	moeda, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("planilha: xlsx style: %w", err)
	}

	if err := f.SetSheetRow(aba, "A1", &cabecalhoExportacao); err != nil {
		return fmt.Errorf("planilha: xlsx header: %w", err)
	}
	if err := f.SetCellStyle(aba, "A1", "H1", negrito); err != nil {
		return fmt.Errorf("planilha: xlsx style: %w", err)
	}

	for i, l := range linhas {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			l.Data.Format("2006-01-02"),
			l.CodigoLoja,
			l.NomeLoja,
			l.Esperado.InexactFloat64(),
			l.Contado.InexactFloat64(),
			l.Diferenca.InexactFloat64(),
			l.Status,
			l.Observacoes,
		}
		if err := f.SetSheetRow(aba, cell, &row); err != nil {
			return fmt.Errorf("planilha: xlsx row %d: %w", i+2, err)
		}
	}
	if len(linhas) > 0 {
		ultima := fmt.Sprintf("F%d", len(linhas)+1)
		if err := f.SetCellStyle(aba, "D2", ultima, moeda); err != nil {
			return fmt.Errorf("planilha: xlsx style: %w", err)
		}
	}
	return f.Write(w)
}
