package shotfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/robert-malhotra/go-shotfile/internal/alloc"
	"github.com/robert-malhotra/go-shotfile/internal/binary"
)

// File is an open shotfile.
type File struct {
	path   string
	file   *os.File
	reader *binary.Reader
	log    *slog.Logger
	opts   *options
	closed bool

	// objects is the arena of all objects in slot order. Relations between
	// objects are indices into it.
	objects []*Object
	byName  map[string]int

	// Names by classification, in slot order.
	lists   []string
	parsets []string
	arrays  []string

	shot        int32
	addrlen     uint64
	headerTable []byte

	// Write support fields
	writable  bool
	source    string
	writer    *binary.Writer
	allocator *alloc.Allocator
}

// Open opens a shotfile and scans its header table. List, ParamSet and
// Device payloads are decoded eagerly; arrays are read on demand.
func Open(path string, opts ...Option) (*File, error) {
	o := buildOptions(opts)

	osFile, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}

	info, err := osFile.Stat()
	if err != nil {
		osFile.Close()
		return nil, fmt.Errorf("opening file: %w", err)
	}

	// Only the header scan tolerates short reads; payloads are always strict.
	scanCfg := binary.DefaultConfig()
	scanCfg.Tolerant = o.tolerant
	reader := binary.NewReader(osFile, binary.DefaultConfig())

	dir, err := scan(binary.NewReader(osFile, scanCfg), info.Size(), o.maxSlots, o.logger)
	if err != nil {
		osFile.Close()
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	f := &File{
		path:   path,
		file:   osFile,
		reader: reader,
		log:    o.logger,
		opts:   o,
	}
	f.resolve(dir)

	f.log.Debug("opened shotfile", "path", path, "objects", len(f.objects), "shot", f.shot)
	return f, nil
}

// Close releases the file handle. A created file is flushed first.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true

	if f.writable {
		if err := f.flush(); err != nil {
			f.file.Close()
			return err
		}
	}

	return f.file.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Shot returns the shot number recorded by the Diagnostic object.
func (f *File) Shot() int32 {
	return f.shot
}

// AddrLen returns the address unit in bytes.
func (f *File) AddrLen() uint64 {
	return f.addrlen
}

// NumObjects returns the number of objects in the directory.
func (f *File) NumObjects() int {
	return len(f.objects)
}

// Objects returns all objects in slot order.
func (f *File) Objects() []*Object {
	out := make([]*Object, len(f.objects))
	copy(out, f.objects)
	return out
}

// ObjectsByLabel returns the objects of one type in slot order.
func (f *File) ObjectsByLabel(l Label) []*Object {
	var out []*Object
	for _, o := range f.objects {
		if o.Label() == l {
			out = append(out, o)
		}
	}
	return out
}

// Object returns the object with the given name. When names repeat, the
// object in the highest slot wins.
func (f *File) Object(name string) (*Object, error) {
	if f.closed {
		return nil, ErrClosed
	}
	i, ok := f.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return f.objects[i], nil
}

// ObjectByID returns the object in the given slot.
func (f *File) ObjectByID(id int) (*Object, error) {
	if f.closed {
		return nil, ErrClosed
	}
	if id < 0 || id >= len(f.objects) {
		return nil, fmt.Errorf("%w: slot %d", ErrNotFound, id)
	}
	return f.objects[id], nil
}

// ListNames returns the names of the List objects.
func (f *File) ListNames() []string {
	return f.lists
}

// ParamSetNames returns the names of the ParamSet and Device objects.
func (f *File) ParamSetNames() []string {
	return f.parsets
}

// ArrayNames returns the names of the Signal, SignalGroup, TimeBase and
// AreaBase objects.
func (f *File) ArrayNames() []string {
	return f.arrays
}

// Fingerprint returns the xxHash64 digest of the raw header table as read
// from disk. It is zero for a created file that has not been reopened.
func (f *File) Fingerprint() uint64 {
	if f.headerTable == nil {
		return 0
	}
	return xxhash.Sum64(f.headerTable)
}
