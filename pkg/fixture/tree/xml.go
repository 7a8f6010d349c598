package tree

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"github.com/provide-io/fixturegen/pkg/fixture/value"
)

const xmlRoot = "root"

type xmlCodec struct{}

// xmlEntry renders one root child element indented one level, with its trailing newline.
func xmlEntry(key string, v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent(jsonIndent, jsonIndent)
	if err := encodeXMLValue(enc, key, v); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// encodeXMLValue writes v as an element named name. Containers carry a count attribute,
// scalars a type attribute; sequence members are <item> elements.
func encodeXMLValue(enc *xml.Encoder, name string, v value.Value) error {
	start := xml.StartElement{Name: xml.Name{Local: name}}
	switch v.Kind {
	case value.KindSequence:
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "count"}, Value: strconv.Itoa(len(v.Seq))}}
	case value.KindMapping:
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "count"}, Value: strconv.Itoa(v.Map.Len())}}
	default:
		start.Attr = []xml.Attr{{Name: xml.Name{Local: "type"}, Value: v.Kind.String()}}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}

	switch v.Kind {
	case value.KindSequence:
		for _, item := range v.Seq {
			if err := encodeXMLValue(enc, "item", item); err != nil {
				return err
			}
		}
	case value.KindMapping:
		var err error
		v.Map.Each(func(k string, child value.Value) {
			if err == nil {
				err = encodeXMLValue(enc, k, child)
			}
		})
		if err != nil {
			return err
		}
	case value.KindNull:
	default:
		if err := enc.EncodeToken(xml.CharData(scalarText(v))); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func scalarText(v value.Value) string {
	switch v.Kind {
	case value.KindString:
		return v.Str
	case value.KindInt:
		return strconv.FormatInt(v.Int, 10)
	case value.KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case value.KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return ""
	}
}

func (xmlCodec) Entry(key string, v value.Value) (uint64, error) {
	data, err := xmlEntry(key, v)
	if err != nil {
		return 0, err
	}
	return uint64(len(data)), nil
}

func (xmlCodec) Document(root *value.Mapping) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<" + xmlRoot + ">\n")
	for _, key := range root.Keys() {
		v, _ := root.Get(key)
		data, err := xmlEntry(key, v)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteString("</" + xmlRoot + ">\n")
	return buf.Bytes(), nil
}
