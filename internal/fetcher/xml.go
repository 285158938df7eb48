package fetcher

import (
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultRecordElement is the XML element read as one row.
const DefaultRecordElement = "record"

type xmlField struct {
	XMLName xml.Name
	Value   string `xml:",chardata"`
}

type xmlRecord struct {
	Attrs  []xml.Attr `xml:",any,attr"`
	Fields []xmlField `xml:",any"`
}

// ReadXML reads every recordElement into a row. Child element names and
// attribute names become columns; repeated children are ";"-joined. Legacy
// charsets declared in the prolog are decoded to UTF-8.
func ReadXML(ctx context.Context, r io.Reader, recordElement string) (*Table, error) {
	if recordElement == "" {
		recordElement = DefaultRecordElement
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "xml: unsupported charset %q", charset)
		}
		return enc.NewDecoder().Reader(input), nil
	}

	var records []map[string]string
	keys := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "xml: context cancelled")
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "xml: read token")
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != recordElement {
			continue
		}

		var rec xmlRecord
		if err := dec.DecodeElement(&rec, &se); err != nil {
			return nil, eris.Wrap(err, "xml: decode record")
		}
		row := make(map[string]string, len(rec.Attrs)+len(rec.Fields))
		for _, a := range rec.Attrs {
			row[a.Name.Local] = strings.TrimSpace(a.Value)
			keys[a.Name.Local] = struct{}{}
		}
		for _, f := range rec.Fields {
			name := f.XMLName.Local
			v := strings.TrimSpace(f.Value)
			keys[name] = struct{}{}
			if prev := row[name]; prev != "" && v != "" {
				v = prev + ";" + v
			} else if v == "" {
				v = prev
			}
			row[name] = v
		}
		records = append(records, row)
	}

	return tableFromMaps(keys, records), nil
}
