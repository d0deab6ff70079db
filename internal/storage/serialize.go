package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dshills/StrataDB/internal/sql/types"
)

// Binary tile codec used by the spill path. This is an in-process transfer
// format only, with no versioning or compatibility guarantees.

const tileMagic uint32 = 0x53544c45 // "STLE"

type typeTag uint8

const (
	tagInteger typeTag = iota + 1
	tagBigInt
	tagBoolean
	tagText
	tagDouble
)

func tagForType(dt types.DataType) (typeTag, error) {
	switch dt {
	case types.Integer:
		return tagInteger, nil
	case types.BigInt:
		return tagBigInt, nil
	case types.Boolean:
		return tagBoolean, nil
	case types.Text:
		return tagText, nil
	case types.Double:
		return tagDouble, nil
	default:
		return 0, fmt.Errorf("type %s has no spill encoding", dt.Name())
	}
}

func typeForTag(tag typeTag) (types.DataType, error) {
	switch tag {
	case tagInteger:
		return types.Integer, nil
	case tagBigInt:
		return types.BigInt, nil
	case tagBoolean:
		return types.Boolean, nil
	case tagText:
		return types.Text, nil
	case tagDouble:
		return types.Double, nil
	default:
		return nil, fmt.Errorf("unknown spill type tag %d", tag)
	}
}

// SerializeTile encodes a tile into the spill format.
func SerializeTile(t *Tile) ([]byte, error) {
	var buf bytes.Buffer

	writeUint32(&buf, tileMagic)
	writeUint32(&buf, uint32(t.NumCols()))  //nolint:gosec // column counts are small
	writeUint32(&buf, uint32(t.NumRows())) //nolint:gosec // row counts fit

	for _, col := range t.schema.Columns {
		tag, err := tagForType(col.Type)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(byte(tag))
		writeUint32(&buf, uint32(len(col.Name))) //nolint:gosec // names are short
		buf.WriteString(col.Name)
	}

	for c := 0; c < t.NumCols(); c++ {
		colType := t.schema.Columns[c].Type
		for r := 0; r < t.numRows; r++ {
			v := t.columns[c][r]
			if v.IsNull() {
				buf.WriteByte(0)
				continue
			}
			payload, err := colType.Serialize(v)
			if err != nil {
				return nil, fmt.Errorf("serialize tile value (%d, %d): %w", r, c, err)
			}
			buf.WriteByte(1)
			writeUint32(&buf, uint32(len(payload))) //nolint:gosec // payload length fits
			buf.Write(payload)
		}
	}

	return buf.Bytes(), nil
}

// DeserializeTile decodes a standalone tile from the spill format.
func DeserializeTile(data []byte) (*Tile, error) {
	r := bytes.NewReader(data)

	magic, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read tile header: %w", err)
	}
	if magic != tileMagic {
		return nil, fmt.Errorf("bad tile magic %#x", magic)
	}
	numCols, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read tile header: %w", err)
	}
	numRows, err := readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("read tile header: %w", err)
	}

	columns := make([]Column, numCols)
	for c := range columns {
		tag, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read column descriptor: %w", err)
		}
		dt, err := typeForTag(typeTag(tag))
		if err != nil {
			return nil, err
		}
		nameLen, err := readUint32(r)
		if err != nil {
			return nil, fmt.Errorf("read column name: %w", err)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("read column name: %w", err)
		}
		columns[c] = Column{Name: string(name), Type: dt}
	}

	schema := NewSchema(columns...)
	tile := newSizedTile(schema, int(numRows))

	for c := 0; c < int(numCols); c++ {
		colType := columns[c].Type
		for row := 0; row < int(numRows); row++ {
			flag, err := r.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("read value flag (%d, %d): %w", row, c, err)
			}
			if flag == 0 {
				tile.columns[c][row] = types.NewNullValue()
				continue
			}
			payloadLen, err := readUint32(r)
			if err != nil {
				return nil, fmt.Errorf("read value length (%d, %d): %w", row, c, err)
			}
			payload := make([]byte, payloadLen)
			if payloadLen > 0 {
				if _, err := io.ReadFull(r, payload); err != nil {
					return nil, fmt.Errorf("read value payload (%d, %d): %w", row, c, err)
				}
			}
			v, err := colType.Deserialize(payload)
			if err != nil {
				return nil, fmt.Errorf("decode value (%d, %d): %w", row, c, err)
			}
			tile.columns[c][row] = v
		}
	}

	return tile, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var scratch [4]byte
	binary.BigEndian.PutUint32(scratch[:], v)
	buf.Write(scratch[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var scratch [4]byte
	if _, err := io.ReadFull(r, scratch[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(scratch[:]), nil
}
