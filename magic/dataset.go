package magic

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Dataset file layout, little endian:
//
//	header   "MAGB", version uint32, rook slots uint32, bishop slots uint32
//	records  64 rook Entry, 64 bishop Entry (mask, magic, shift, offset)
//	attacks  rook slots uint64, bishop slots uint64
const (
	DatasetVersion uint32 = 1

	// maxSlots is far above any real table (rook 102400, bishop 5248) and
	// keeps a corrupt header from triggering a huge allocation.
	maxSlots = 1 << 20
	// A square never has more than 12 relevant blockers.
	minShift = 64 - 12
)

var datasetMagic = [4]byte{'M', 'A', 'G', 'B'}

type datasetHeader struct {
	Magic       [4]byte
	Version     uint32
	RookSlots   uint32
	BishopSlots uint32
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteTo serializes the dataset to w.
func (t *Tables) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	hdr := datasetHeader{
		Magic:       datasetMagic,
		Version:     DatasetVersion,
		RookSlots:   uint32(len(t.rookAttacks)),
		BishopSlots: uint32(len(t.bishopAttacks)),
	}
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return cw.n, fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(cw, binary.LittleEndian, &t.rook); err != nil {
		return cw.n, fmt.Errorf("write rook records: %w", err)
	}
	if err := binary.Write(cw, binary.LittleEndian, &t.bishop); err != nil {
		return cw.n, fmt.Errorf("write bishop records: %w", err)
	}
	if err := binary.Write(cw, binary.LittleEndian, t.rookAttacks); err != nil {
		return cw.n, fmt.Errorf("write rook attacks: %w", err)
	}
	if err := binary.Write(cw, binary.LittleEndian, t.bishopAttacks); err != nil {
		return cw.n, fmt.Errorf("write bishop attacks: %w", err)
	}
	return cw.n, nil
}

// Read decodes a dataset written by WriteTo. Structural problems are
// reported as ErrCorruptDataset; Read does not check the attack sets
// themselves, use Verify for that.
func Read(r io.Reader) (*Tables, error) {
	var hdr datasetHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrCorruptDataset, err)
	}
	if hdr.Magic != datasetMagic {
		return nil, fmt.Errorf("%w: bad header %q", ErrCorruptDataset, hdr.Magic[:])
	}
	if hdr.Version != DatasetVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptDataset, hdr.Version)
	}
	if hdr.RookSlots > maxSlots || hdr.BishopSlots > maxSlots {
		return nil, fmt.Errorf("%w: table sizes %d/%d out of range", ErrCorruptDataset, hdr.RookSlots, hdr.BishopSlots)
	}

	t := &Tables{
		rookAttacks:   make([]uint64, hdr.RookSlots),
		bishopAttacks: make([]uint64, hdr.BishopSlots),
	}
	if err := binary.Read(r, binary.LittleEndian, &t.rook); err != nil {
		return nil, fmt.Errorf("%w: read rook records: %v", ErrCorruptDataset, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &t.bishop); err != nil {
		return nil, fmt.Errorf("%w: read bishop records: %v", ErrCorruptDataset, err)
	}
	if err := checkEntries("rook", &t.rook, len(t.rookAttacks)); err != nil {
		return nil, err
	}
	if err := checkEntries("bishop", &t.bishop, len(t.bishopAttacks)); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, t.rookAttacks); err != nil {
		return nil, fmt.Errorf("%w: read rook attacks: %v", ErrCorruptDataset, err)
	}
	if err := binary.Read(r, binary.LittleEndian, t.bishopAttacks); err != nil {
		return nil, fmt.Errorf("%w: read bishop attacks: %v", ErrCorruptDataset, err)
	}
	return t, nil
}

func checkEntries(name string, entries *[64]Entry, slots int) error {
	for sq := range entries {
		e := &entries[sq]
		if e.Shift < minShift || e.Shift >= 64 {
			return fmt.Errorf("%w: %s shift %d on square %d", ErrCorruptDataset, name, e.Shift, sq)
		}
		if int(e.Offset)+e.size() > slots {
			return fmt.Errorf("%w: %s block on square %d ends past table end", ErrCorruptDataset, name, sq)
		}
	}
	return nil
}

// Load reads a dataset file.
func Load(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	t, err := Read(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Save writes the dataset to path, replacing any existing file.
func (t *Tables) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if _, err := t.WriteTo(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}
