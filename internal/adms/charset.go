package adms

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder は端末の文字コードの本文を UTF-8 にする
type Decoder struct {
	charset string
	enc     encoding.Encoding // nil なら変換しない
}

func NewDecoder(charset string) (*Decoder, error) {
	switch charset {
	case "", "utf-8":
		// 先頭 BOM は落とす
		return &Decoder{charset: "utf-8", enc: unicode.UTF8BOM}, nil
	case "utf-16le":
		return &Decoder{charset: charset, enc: unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)}, nil
	case "shift_jis":
		return &Decoder{charset: charset, enc: japanese.ShiftJIS}, nil
	case "euc-jp":
		return &Decoder{charset: charset, enc: japanese.EUCJP}, nil
	}
	return nil, fmt.Errorf("unsupported charset: %q", charset)
}

func (d *Decoder) Charset() string { return d.charset }

func (d *Decoder) Decode(b []byte) ([]byte, error) {
	if d == nil || d.enc == nil {
		return b, nil
	}
	out, _, err := transform.Bytes(d.enc.NewDecoder(), b)
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", d.charset, err)
	}
	return out, nil
}
