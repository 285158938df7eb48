package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadXML(t *testing.T) {
	input := `<export>
		<record vd17="3:001">
			<author>Kepler, Johannes</author>
			<title_short>Harmonices mundi</title_short>
			<subject>Astronomy</subject>
			<subject>Music</subject>
			<subject></subject>
		</record>
		<note>skip</note>
		<record vd17="3:002"><author>Comenius</author></record>
	</export>`

	tbl, err := ReadXML(context.Background(), strings.NewReader(input), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"author", "subject", "title_short", "vd17"}, tbl.Header)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "3:001", tbl.Get(0, "vd17"))
	assert.Equal(t, "Astronomy;Music", tbl.Get(0, "subject"))
	assert.Equal(t, "Comenius", tbl.Get(1, "author"))
	assert.Equal(t, "", tbl.Get(1, "title_short"))
}

func TestReadXML_CustomElementAndCharset(t *testing.T) {
	input := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<rows><item><author>M\xfcller</author></item></rows>"

	tbl, err := ReadXML(context.Background(), strings.NewReader(input), "item")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Müller", tbl.Get(0, "author"))
}

func TestReadXML_Malformed(t *testing.T) {
	_, err := ReadXML(context.Background(), strings.NewReader("<export><record><a>1</record>"), "")
	require.Error(t, err)
}

func TestReadXML_NoRecords(t *testing.T) {
	tbl, err := ReadXML(context.Background(), strings.NewReader("<export/>"), "")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadTable_XML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vd18.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<r><row><vd18>1</vd18></row></r>`), 0o644))

	tbl, err := LoadTable(context.Background(), path, LoadOptions{RecordElement: "row"})
	require.NoError(t, err)
	assert.Equal(t, "1", tbl.Get(0, "vd18"))
}
