package rag

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"

	"github.com/google/uuid"
)

// On-disk layout, little endian:
//
//	magic "PQAVIDX1" | version u32 | dim u32 | count u64 | build id [16]byte
//	count*dim float32 vectors in id order
//	crc32 (IEEE) of the vector bytes
const (
	indexMagic      = "PQAVIDX1"
	indexVersion    = uint32(1)
	indexHeaderSize = 8 + 4 + 4 + 8 + 16
	indexTrailer    = 4
)

type indexHeader struct {
	Magic   [8]byte
	Version uint32
	Dim     uint32
	Count   uint64
	BuildID [16]byte
}

// BuildID identifies the build that wrote this index; it is uuid.Nil for indexes never saved or loaded.
func (f *FlatIndex) BuildID() uuid.UUID { return f.buildID }

// Save writes the index to path, replacing any existing file.
func (f *FlatIndex) Save(path string) error {
	return f.saveAs(path, f.buildID)
}

// saveAs writes the index stamped with buildID without changing f.
func (f *FlatIndex) saveAs(path string, buildID uuid.UUID) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	if err := f.encode(file, buildID); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync index file: %w", err)
	}
	return file.Close()
}

// WriteTo encodes the index. Vectors are written bit-for-bit.
func (f *FlatIndex) WriteTo(w io.Writer) error {
	return f.encode(w, f.buildID)
}

func (f *FlatIndex) encode(w io.Writer, buildID uuid.UUID) error {
	bw := bufio.NewWriter(w)
	header := indexHeader{
		Version: indexVersion,
		Dim:     uint32(f.dim),
		Count:   uint64(f.Len()),
		BuildID: buildID,
	}
	copy(header.Magic[:], indexMagic)
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("write index header: %w", err)
	}

	sum := crc32.NewIEEE()
	if err := binary.Write(io.MultiWriter(bw, sum), binary.LittleEndian, f.data); err != nil {
		return fmt.Errorf("write index vectors: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, sum.Sum32()); err != nil {
		return fmt.Errorf("write index checksum: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush index: %w", err)
	}
	return nil
}

// LoadFlatIndex reads an index written by Save. When expectedDim is positive
// the stored dimension must equal it.
func LoadFlatIndex(path string, expectedDim int) (*FlatIndex, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat index file: %w", err)
	}
	return readFlatIndex(file, info.Size(), expectedDim)
}

func readFlatIndex(r io.Reader, size int64, expectedDim int) (*FlatIndex, error) {
	if size < indexHeaderSize+indexTrailer {
		return nil, corruptf("index file is %d bytes, shorter than its header", size)
	}
	br := bufio.NewReader(r)

	var header indexHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, corruptf("read header: %v", err)
	}
	if string(header.Magic[:]) != indexMagic {
		return nil, corruptf("bad magic %q", header.Magic[:])
	}
	if header.Version != indexVersion {
		return nil, corruptf("unsupported version %d", header.Version)
	}
	if header.Dim == 0 {
		return nil, corruptf("zero dimension")
	}
	if expectedDim > 0 && int(header.Dim) != expectedDim {
		return nil, corruptf("stored dimension %d, expected %d", header.Dim, expectedDim)
	}

	dim := uint64(header.Dim)
	if header.Count > uint64(math.MaxInt64)/(4*dim) {
		return nil, corruptf("vector count %d overflows", header.Count)
	}
	want := int64(indexHeaderSize) + int64(header.Count*dim*4) + indexTrailer
	if size != want {
		return nil, corruptf("index file is %d bytes, header describes %d", size, want)
	}

	data := make([]float32, header.Count*dim)
	sum := crc32.NewIEEE()
	if err := binary.Read(io.TeeReader(br, sum), binary.LittleEndian, data); err != nil {
		return nil, corruptf("read vectors: %v", err)
	}
	var stored uint32
	if err := binary.Read(br, binary.LittleEndian, &stored); err != nil {
		return nil, corruptf("read checksum: %v", err)
	}
	if stored != sum.Sum32() {
		return nil, corruptf("checksum mismatch")
	}

	return &FlatIndex{dim: int(dim), data: data, buildID: uuid.UUID(header.BuildID)}, nil
}
