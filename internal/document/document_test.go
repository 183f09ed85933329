package document

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func extract(t *testing.T, a *Adapter, name string, data []byte) (string, error) {
	t.Helper()
	return a.Extract(context.Background(), bytes.NewReader(data), name)
}

func TestExtract_PlainTextEncodings(t *testing.T) {
	a := New(Options{})

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"utf-8", []byte("héllo wörld"), "héllo wörld"},
		{"utf-8 with bom", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...), "hello"},
		{"latin-1", []byte("caf\xe9 cr\xe8me"), "café crème"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract(t, a, "notes.txt", tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeText_Order(t *testing.T) {
	_, enc, ok := decodeText([]byte("plain"))
	require.True(t, ok)
	assert.Equal(t, "utf-8", enc)

	_, enc, _ = decodeText([]byte("\xEF\xBB\xBFplain"))
	assert.Equal(t, "utf-8-sig", enc)

	_, enc, _ = decodeText([]byte("\x93quoted\x94"))
	assert.Equal(t, "latin-1", enc)
}

func TestExtract_CSVReflow(t *testing.T) {
	data := []byte("name, email ,\n Bob , bob@example.com,\n,,\n\"Lee, Ann\",ann@example.com\n")

	got, err := extract(t, New(Options{}), "people.CSV", data)

	require.NoError(t, err)
	assert.Equal(t, "name | email\nBob | bob@example.com\nLee, Ann | ann@example.com", got)
}

func TestExtract_CSVRowCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "row%d,value%d\n", i, i)
	}

	got, err := extract(t, New(Options{MaxRows: 3}), "rows.csv", []byte(b.String()))

	require.NoError(t, err)
	assert.Equal(t, "row0 | value0\nrow1 | value1\nrow2 | value2\n"+TruncationMarker, got)
}

func TestExtract_CSVExactlyAtCapHasNoMarker(t *testing.T) {
	got, err := extract(t, New(Options{MaxRows: 2}), "rows.csv", []byte("a,b\nc,d\n"))

	require.NoError(t, err)
	assert.Equal(t, "a | b\nc | d", got)
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>%s</w:body></w:document>`, body)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract_Docx(t *testing.T) {
	body := `<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Contact Dr. John Smith</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t xml:space="preserve"> </w:t></w:r></w:p>` +
		`<w:tbl>` +
		`<w:tr><w:tc><w:p><w:r><w:t>Email</w:t></w:r></w:p></w:tc><w:tc><w:p/></w:tc><w:tc><w:p><w:r><w:t>john@example.com</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p/></w:tc></w:tr>` +
		`</w:tbl>` +
		`<w:p><w:r><w:t>Call</w:t><w:tab/><w:t>(650) 253-0000</w:t></w:r></w:p>`

	got, err := extract(t, New(Options{}), "letter.docx", buildDocx(t, body))

	require.NoError(t, err)
	assert.Equal(t, "Contact Dr. John Smith\nCall\t(650) 253-0000\nEmail | john@example.com", got)
}

func TestExtract_DocxWithoutBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("other.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = extract(t, New(Options{}), "empty.docx", buf.Bytes())
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_LegacyDocIsNoText(t *testing.T) {
	_, err := extract(t, New(Options{}), "old.doc", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_SpreadsheetRowCap(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter("Sheet1")
	require.NoError(t, err)
	const rows = 10_050
	for i := 1; i <= rows; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i)
		require.NoError(t, err)
		require.NoError(t, sw.SetRow(cell, []interface{}{fmt.Sprintf("user%d", i), i}))
	}
	require.NoError(t, sw.Flush())

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := extract(t, New(Options{}), "big.xlsx", buf.Bytes())
	require.NoError(t, err)

	lines := strings.Split(got, "\n")
	require.Equal(t, "=== Sheet1 ===", lines[0])

	markerAt := -1
	for i, l := range lines {
		if l == TruncationMarker {
			markerAt = i
			break
		}
	}
	require.NotEqual(t, -1, markerAt, "truncation marker missing")
	assert.Equal(t, DefaultMaxRows, markerAt-1, "row lines before marker")
	assert.Equal(t, "user1 | 1", lines[1])
	assert.Equal(t, "user10000 | 10000", lines[markerAt-1])
	assert.Equal(t, "", lines[len(lines)-1])
}

func TestExtract_SpreadsheetSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Bob Lee"))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", "bob@example.com"))
	_, err := f.NewSheet("Contacts")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Contacts", "B2", "Mary Jones"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	got, err := extract(t, New(Options{}), "book.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "=== Sheet1 ===\nBob Lee | bob@example.com\n\n=== Contacts ===\nMary Jones\n", got)
}

func TestExtract_GarbagePDFIsNoText(t *testing.T) {
	_, err := extract(t, New(Options{}), "scan.pdf", []byte("this is not a pdf"))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_Unsupported(t *testing.T) {
	_, err := extract(t, New(Options{}), "tool.exe", []byte("MZ"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestExtract_TooLarge(t *testing.T) {
	_, err := extract(t, New(Options{MaxBytes: 10}), "a.txt", []byte("eleven byte"))
	assert.ErrorIs(t, err, ErrTooLarge)

	got, err := extract(t, New(Options{MaxBytes: 10}), "a.txt", []byte("ten bytes!"))
	require.NoError(t, err)
	assert.Equal(t, "ten bytes!", got)
}

func TestExtract_BlankTextIsNoText(t *testing.T) {
	_, err := extract(t, New(Options{}), "blank.txt", []byte(" \n\t "))
	assert.ErrorIs(t, err, ErrNoText)
}

func TestExtract_RecoversDecoderPanic(t *testing.T) {
	a := New(Options{})
	a.Register(".bin", ExtractorFunc(func(context.Context, []byte) (string, error) {
		panic("corrupt structure")
	}))

	_, err := extract(t, a, "x.bin", []byte{1})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestAdapter_Supports(t *testing.T) {
	a := New(Options{})

	for _, name := range []string{"a.pdf", "b.DOCX", "c.doc", "d.xlsx", "e.xls", "f.txt", "g.csv"} {
		assert.True(t, a.Supports(name), name)
	}
	assert.False(t, a.Supports("h.exe"))
	assert.False(t, a.Supports("noext"))
}

func TestOptions_Defaults(t *testing.T) {
	got := New(Options{}).Options()
	assert.Equal(t, Options{MaxPages: DefaultMaxPages, MaxRows: DefaultMaxRows, MaxBytes: DefaultMaxBytes}, got)
}
