// Package planilha reads and writes the spreadsheet files exchanged with store
// staff: semicolon separated CSV in Brazilian notation, plus XLSX.
//
// Readers never fail the whole file because of one bad row. They return the
// valid rows and a list of "Linha N: ..." messages for the rejected ones.
package planilha

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BOM is written at the start of every CSV so spreadsheet tools pick UTF-8.
const BOM = "\ufeff"

// ErrArquivoVazio is returned when a file has no data rows after the header.
var ErrArquivoVazio = errors.New("arquivo vazio ou inválido")

var (
	reDataBR  = regexp.MustCompile(`^(\d{2})[/-](\d{2})[/-](\d{4})$`)
	reDataISO = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// registro is one parsed row with its 1-based line number in the source file.
type registro struct {
	linha  int
	campos []string
}

// ParseData accepts DD/MM/YYYY, DD-MM-YYYY and YYYY-MM-DD. The result is a
// calendar date at UTC midnight so it never shifts a day when stored.
func ParseData(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	iso := ""
	if m := reDataBR.FindStringSubmatch(s); m != nil {
		iso = m[3] + "-" + m[2] + "-" + m[1]
	} else if reDataISO.MatchString(s) {
		iso = s
	}
	if iso == "" {
		return time.Time{}, fmt.Errorf("data inválida %q", s)
	}
	t, err := time.ParseInLocation("2006-01-02", iso, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("data inválida %q", s)
	}
	return t, nil
}

// ParseValorBR converts "1.234,56" into a decimal. Dots are thousand
// separators and the comma is the decimal mark.
func ParseValorBR(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("valor vazio")
	}
	limpo := strings.ReplaceAll(s, ".", "")
	limpo = strings.Replace(limpo, ",", ".", 1)
	v, err := decimal.NewFromString(limpo)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valor inválido %q", s)
	}
	return v, nil
}

// FormatarValorBR renders a decimal with two places and a decimal comma.
func FormatarValorBR(v decimal.Decimal) string {
	return strings.Replace(v.StringFixed(2), ".", ",", 1)
}

// Normalizar lower-cases s, strips accents and collapses blanks. Used to match
// header names and store names typed by hand.
func Normalizar(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// decodificar strips a UTF-8 BOM and converts Windows-1252 input, which is what
// Excel produces on Brazilian Windows installs, to UTF-8.
func decodificar(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte(BOM))
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("planilha: decode windows-1252: %w", err)
	}
	return out, nil
}

// detectarSeparador picks ';' when the first non-empty line has one, ',' otherwise.
func detectarSeparador(data []byte) rune {
	for _, l := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(l)) == 0 {
			continue
		}
		if bytes.ContainsRune(l, ';') {
			return ';'
		}
		return ','
	}
	return ';'
}

// lerCSV returns the header and the data records. Malformed lines become error
// messages instead of aborting the read.
func lerCSV(r io.Reader, sep rune) (cabecalho []string, regs []registro, erros []string, err error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("planilha: read: %w", err)
	}
	data, err := decodificar(raw)
	if err != nil {
		return nil, nil, nil, err
	}
	if sep == 0 {
		sep = detectarSeparador(data)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sep
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	primeira := true
	for {
		campos, rerr := cr.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			var pe *csv.ParseError
			if errors.As(rerr, &pe) {
				erros = append(erros, fmt.Sprintf("Linha %d: formato inválido", pe.StartLine))
				continue
			}
			return nil, nil, nil, fmt.Errorf("planilha: csv: %w", rerr)
		}
		linha, _ := cr.FieldPos(0)
		campos = limparCampos(campos)
		if vazio(campos) {
			continue
		}
		if primeira {
			cabecalho = campos
			primeira = false
			continue
		}
		regs = append(regs, registro{linha: linha, campos: campos})
	}
	if cabecalho == nil || len(regs) == 0 && len(erros) == 0 {
		return nil, nil, nil, ErrArquivoVazio
	}
	return cabecalho, regs, erros, nil
}

// lerXLSX reads the first sheet of a workbook. Cells come back unformatted so
// numbers use a decimal point and dates may be serial numbers.
func lerXLSX(r io.Reader) (cabecalho []string, regs []registro, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("planilha: xlsx: %w", err)
	}
	defer f.Close()

	abas := f.GetSheetList()
	if len(abas) == 0 {
		return nil, nil, ErrArquivoVazio
	}
	linhas, err := f.GetRows(abas[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("planilha: xlsx rows: %w", err)
	}
	for i, campos := range linhas {
		campos = limparCampos(campos)
		if vazio(campos) {
			continue
		}
		if cabecalho == nil {
			cabecalho = campos
			continue
		}
		regs = append(regs, registro{linha: i + 1, campos: campos})
	}
	if cabecalho == nil || len(regs) == 0 {
		return nil, nil, ErrArquivoVazio
	}
	return cabecalho, regs, nil
}

func limparCampos(campos []string) []string {
	out := make([]string, len(campos))
	for i, c := range campos {
		c = strings.TrimSpace(c)
		c = strings.TrimPrefix(c, `"`)
		c = strings.TrimSuffix(c, `"`)
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func vazio(campos []string) bool {
	for _, c := range campos {
		if c != "" {
			return false
		}
	}
	return true
}

// mapearColunas resolves column positions from header names. Returns nil when
// any required column is missing so callers fall back to positional order.
func mapearColunas(cabecalho []string, apelidos map[string][]string, obrigatorias []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range cabecalho {
		n := Normalizar(h)
		for chave, nomes := range apelidos {
			if _, ok := idx[chave]; ok {
				continue
			}
			for _, nome := range nomes {
				if n == nome {
					idx[chave] = i
					break
				}
			}
		}
	}
	for _, k := range obrigatorias {
		if _, ok := idx[k]; !ok {
			return nil
		}
	}
	return idx
}

func campo(campos []string, i int) string {
	if i < 0 || i >= len(campos) {
		return ""
	}
	return campos[i]
}

// escreverCSV writes every cell quoted, ';' separated, with a BOM prefix.
func escreverCSV(w io.Writer, cabecalho []string, linhas [][]string) error {
	var b strings.Builder
	b.WriteString(BOM)
	b.WriteString(strings.Join(cabecalho, ";"))
	for _, l := range linhas {
		b.WriteByte('\n')
		for i, c := range l {
			if i > 0 {
				b.WriteByte(';')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(c, `"`, `""`))
			b.WriteByte('"')
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
