// Package serialize implements the datafile format: a magic
// header followed by a stream of records, each describing one serialized
// number-system value (or array of values), terminated by a typeId-0
// record.
//
// Record layout (all integers little-endian):
//
//	typeId        uint32
//	nrParameters  uint32
//	parameter[nrParameters] uint32   (e.g. N, ES, R for posit/cfloat/fixpnt)
//	comment       length-prefixed string
//	aggregationType uint32           (Scalar | Vector | Matrix | Tensor)
//	nrElements    uint32
//	element[nrElements] uint64       (the value's raw bit pattern)
//	name          length-prefixed string
package serialize

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/stillwater-sc/universal-sub011/dtype"
)

// Magic is the datafile signature written at the start of every stream.
const Magic = "UNVSDF01"

// AggregationType classifies how many elements a record holds.
type AggregationType uint32

const (
	Scalar AggregationType = iota
	Vector
	Matrix
	Tensor
)

// Record is one parsed datafile record.
type Record struct {
	TypeID      dtype.TypeID
	Parameters  []uint32
	Comment     string
	Aggregation AggregationType
	Elements    []uint64
	Name        string
}

// Writer streams records to an underlying io.Writer, prefixed by the
// datafile magic header.
type Writer struct {
	w           io.Writer
	wroteHeader bool
	closed      bool
}

// NewWriter wraps w, writing the magic header on the first WriteRecord
// call (so an empty datafile is still valid: header + terminator only,
// written by Close).
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (dw *Writer) ensureHeader() error {
	if dw.wroteHeader {
		return nil
	}
	if _, err := io.WriteString(dw.w, Magic); err != nil {
		return errors.Wrap(err, "serialize: writing magic header")
	}
	dw.wroteHeader = true
	return nil
}

// WriteRecord appends one record to the stream.
func (dw *Writer) WriteRecord(r Record) error {
	if err := dw.ensureHeader(); err != nil {
		return err
	}
	if err := writeU32(dw.w, uint32(r.TypeID)); err != nil {
		return err
	}
	if err := writeU32(dw.w, uint32(len(r.Parameters))); err != nil {
		return err
	}
	for _, p := range r.Parameters {
		if err := writeU32(dw.w, p); err != nil {
			return err
		}
	}
	if err := writeString(dw.w, r.Comment); err != nil {
		return err
	}
	if err := writeU32(dw.w, uint32(r.Aggregation)); err != nil {
		return err
	}
	if err := writeU32(dw.w, uint32(len(r.Elements))); err != nil {
		return err
	}
	for _, e := range r.Elements {
		if err := binary.Write(dw.w, binary.LittleEndian, e); err != nil {
			return errors.Wrap(err, "serialize: writing element")
		}
	}
	if err := writeString(dw.w, r.Name); err != nil {
		return err
	}
	return nil
}

// Close writes the typeId-0 terminator record that ends a datafile.
func (dw *Writer) Close() error {
	if dw.closed {
		return nil
	}
	if err := dw.ensureHeader(); err != nil {
		return err
	}
	dw.closed = true
	return writeU32(dw.w, uint32(dtype.TypeIDTerminator))
}

func writeU32(w io.Writer, v uint32) error {
	return errors.Wrap(binary.Write(w, binary.LittleEndian, v), "serialize: writing uint32")
}

func writeString(w io.Writer, s string) error {
	if err := writeU32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return errors.Wrap(err, "serialize: writing string")
}

// Reader streams records back out of an underlying io.Reader, validating
// the magic header on first use.
type Reader struct {
	r          io.Reader
	readHeader bool
	terminated bool
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader { return &Reader{r: r} }

func (dr *Reader) ensureHeader() error {
	if dr.readHeader {
		return nil
	}
	buf := make([]byte, len(Magic))
	if _, err := io.ReadFull(dr.r, buf); err != nil {
		return errors.Wrap(err, "serialize: reading magic header")
	}
	if string(buf) != Magic {
		return errors.Errorf("serialize: bad magic header %q", buf)
	}
	dr.readHeader = true
	return nil
}

// ReadRecord reads the next record, returning io.EOF once the typeId-0
// terminator has been consumed.
func (dr *Reader) ReadRecord() (Record, error) {
	if err := dr.ensureHeader(); err != nil {
		return Record{}, err
	}
	if dr.terminated {
		return Record{}, io.EOF
	}
	typeID, err := readU32(dr.r)
	if err != nil {
		return Record{}, err
	}
	if dtype.TypeID(typeID) == dtype.TypeIDTerminator {
		dr.terminated = true
		return Record{}, io.EOF
	}

	nrParams, err := readU32(dr.r)
	if err != nil {
		return Record{}, err
	}
	params := make([]uint32, nrParams)
	for i := range params {
		if params[i], err = readU32(dr.r); err != nil {
			return Record{}, err
		}
	}
	comment, err := readString(dr.r)
	if err != nil {
		return Record{}, err
	}
	aggVal, err := readU32(dr.r)
	if err != nil {
		return Record{}, err
	}
	nrElements, err := readU32(dr.r)
	if err != nil {
		return Record{}, err
	}
	elements := make([]uint64, nrElements)
	for i := range elements {
		if err := binary.Read(dr.r, binary.LittleEndian, &elements[i]); err != nil {
			return Record{}, errors.Wrap(err, "serialize: reading element")
		}
	}
	name, err := readString(dr.r)
	if err != nil {
		return Record{}, err
	}
	return Record{
		TypeID:      dtype.TypeID(typeID),
		Parameters:  params,
		Comment:     comment,
		Aggregation: AggregationType(aggVal),
		Elements:    elements,
		Name:        name,
	}, nil
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, errors.Wrap(err, "serialize: reading uint32")
	}
	return v, nil
}

func readString(r io.Reader) (string, error) {
	n, err := readU32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrap(err, "serialize: reading string")
	}
	return string(buf), nil
}
