// Package store persists winning programs as raw fixed-size byte dumps.
package store

import (
	"errors"
	"io"
	"io/fs"
	"log"
	"os"

	"github.com/ezrec/primeval/vm"
)

// Program is a raw program image, exactly one machine memory in size.
type Program [vm.MEM_SIZE]byte

// Unmarshal reads a program from a reader, replacing any existing data.
// The reader must hold exactly MEM_SIZE bytes.
func (prog *Program) Unmarshal(file io.Reader) (err error) {
	_, err = io.ReadFull(file, prog[:])
	if err != nil {
		err = errors.Join(ErrProgramShort, err)
		return
	}

	var extra [1]byte
	n, _ := file.Read(extra[:])
	if n != 0 {
		err = ErrProgramLong
	}

	return
}

// Marshal writes the raw program image to a writer.
func (prog *Program) Marshal(file io.Writer) (err error) {
	_, err = file.Write(prog[:])

	return
}

// File loads and saves the current winning program at a fixed path,
// with overwrite semantics.
type File struct {
	Verbose bool // Set to enable verbose logging.

	Path string
}

// Load reads the stored program. A missing file is not an error;
// ok reports whether a program was present.
func (sf *File) Load() (prog Program, ok bool, err error) {
	file, err := os.Open(sf.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		return
	}
	defer file.Close()

	err = prog.Unmarshal(file)
	if err != nil {
		return
	}

	ok = true
	return
}

// Publish durably replaces the stored program. The write goes to a
// temporary file first so a crash never leaves a torn dump behind.
func (sf *File) Publish(genome [vm.MEM_SIZE]byte) (err error) {
	prog := Program(genome)

	temp := sf.Path + ".tmp"
	file, err := os.Create(temp)
	if err != nil {
		return
	}

	err = prog.Marshal(file)
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(temp, sf.Path)
	}
	if err != nil {
		os.Remove(temp)
		return
	}

	if sf.Verbose {
		log.Printf("store: published %v", sf.Path)
	}

	return
}
