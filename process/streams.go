package process

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	goerrors "github.com/kbukum/pipekit/errors"
)

// Metadata describes the target stream of a Process.
type Metadata struct {
	StreamType string `json:"stream_type"`
	Mode       string `json:"mode"`
	Name       string `json:"name"`
	Blocked    bool   `json:"blocked"`
	EOF        bool   `json:"eof"`
	Unread     int    `json:"unread_bytes"`
	Seekable   bool   `json:"seekable"`
}

// Supports reports whether op is forwarded by the Process's shape.
func (p *Process) Supports(op Op) bool {
	return p.shape.Ops.Has(op)
}

// target returns the stream op acts on, after checking that the shape
// forwards op and that the Process is open.
func (p *Process) target(op Op) (*os.File, error) {
	if !p.shape.Ops.Has(op) {
		return nil, goerrors.Unsupported(op.String())
	}
	if p.state != StateOpen {
		return nil, goerrors.AlreadyClosed("process")
	}
	return p.streams[p.shape.Target], nil
}

// source returns the buffered reader over the target stream. All read
// operations share it so that none of them loses buffered bytes.
func (p *Process) source(op Op) (*bufio.Reader, error) {
	f, err := p.target(op)
	if err != nil {
		return nil, err
	}
	if p.reader == nil {
		p.reader = bufio.NewReader(f)
	}
	return p.reader, nil
}

func (p *Process) note(err error) error {
	if errors.Is(err, io.EOF) {
		p.eof = true
	}
	return err
}

// EOF reports whether the target stream is drained. It blocks until the child
// writes more data or closes its end.
func (p *Process) EOF() (bool, error) {
	r, err := p.source(OpEOF)
	if err != nil {
		return false, err
	}
	if _, err := r.Peek(1); err != nil {
		if errors.Is(p.note(err), io.EOF) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}

// ReadChar reads a single byte.
func (p *Process) ReadChar() (byte, error) {
	r, err := p.source(OpReadChar)
	if err != nil {
		return 0, err
	}
	b, err := r.ReadByte()
	return b, p.note(err)
}

// ReadLine reads up to and including the next newline. A final line without
// a newline is returned as is; io.EOF is returned once nothing is left.
func (p *Process) ReadLine() (string, error) {
	r, err := p.source(OpReadLine)
	if err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if errors.Is(p.note(err), io.EOF) && line != "" {
		return line, nil
	}
	return line, err
}

// ReadLineLimit reads until delim or until max bytes have been read,
// whichever comes first. The delimiter is consumed but not returned. An
// empty delim reads max bytes; max <= 0 means no limit.
func (p *Process) ReadLineLimit(max int, delim string) (string, error) {
	r, err := p.source(OpReadLineLimit)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	for max <= 0 || buf.Len() < max {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(p.note(err), io.EOF) && buf.Len() > 0 {
				break
			}
			return buf.String(), err
		}
		buf.WriteByte(b)
		if delim != "" && bytes.HasSuffix(buf.Bytes(), []byte(delim)) {
			buf.Truncate(buf.Len() - len(delim))
			break
		}
	}
	return buf.String(), nil
}

// Read implements io.Reader over the target stream.
func (p *Process) Read(b []byte) (int, error) {
	r, err := p.source(OpRead)
	if err != nil {
		return 0, err
	}
	n, err := r.Read(b)
	return n, p.note(err)
}

// ReadN reads up to n bytes, returning fewer only if the stream ends first.
func (p *Process) ReadN(n int) ([]byte, error) {
	r, err := p.source(OpRead)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, goerrors.InvalidArgument(OpRead.String(), "length must not be negative")
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(r, buf)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		p.eof = true
		return buf[:got], nil
	case err != nil:
		return nil, p.note(err)
	}
	return buf, nil
}

// Scan parses the target stream according to format, as fmt.Fscanf does.
func (p *Process) Scan(format string, args ...any) (int, error) {
	r, err := p.source(OpScan)
	if err != nil {
		return 0, err
	}
	n, err := fmt.Fscanf(r, format, args...)
	return n, p.note(err)
}

// ReadAll reads until the child closes the target stream.
func (p *Process) ReadAll() ([]byte, error) {
	r, err := p.source(OpReadAll)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(r)
	p.eof = err == nil
	return b, err
}

// ReadRecord reads one CSV record. Quoted fields may span lines. A blank
// line yields a nil record and no error.
func (p *Process) ReadRecord() ([]string, error) {
	r, err := p.source(OpReadRecord)
	if err != nil {
		return nil, err
	}
	var raw strings.Builder
	for {
		line, err := r.ReadString('\n')
		raw.WriteString(line)
		if err != nil {
			if !errors.Is(p.note(err), io.EOF) {
				return nil, err
			}
			if raw.Len() == 0 {
				return nil, io.EOF
			}
			break
		}
		// An odd quote count means a quoted field continues on the next line.
		if strings.Count(raw.String(), `"`)%2 == 0 {
			break
		}
	}

	cr := csv.NewReader(strings.NewReader(raw.String()))
	cr.FieldsPerRecord = -1
	record, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrors.InvalidArgument(OpReadRecord.String(), err.Error()).WithCause(err)
	}
	return record, nil
}

// Stat returns file information for the target pipe.
func (p *Process) Stat() (os.FileInfo, error) {
	f, err := p.target(OpStat)
	if err != nil {
		return nil, err
	}
	return f.Stat()
}

// Metadata describes the target stream.
func (p *Process) Metadata() (Metadata, error) {
	f, err := p.target(OpMetadata)
	if err != nil {
		return Metadata{}, err
	}
	md := Metadata{
		StreamType: "pipe",
		Mode:       "r",
		Name:       f.Name(),
		Blocked:    true,
		EOF:        p.eof,
	}
	if p.shape.Target == Stdin {
		md.Mode = "w"
	}
	if p.reader != nil {
		md.Unread = p.reader.Buffered()
	}
	return md, nil
}

// Write implements io.Writer over the target stream.
func (p *Process) Write(b []byte) (int, error) {
	f, err := p.target(OpWrite)
	if err != nil {
		return 0, err
	}
	return f.Write(b)
}

// WriteString writes s to the target stream.
func (p *Process) WriteString(s string) (int, error) {
	f, err := p.target(OpWriteString)
	if err != nil {
		return 0, err
	}
	return f.WriteString(s)
}

// WriteRecord writes fields as one CSV line and returns the bytes written.
func (p *Process) WriteRecord(fields []string) (int, error) {
	f, err := p.target(OpWriteRecord)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return 0, goerrors.InvalidArgument(OpWriteRecord.String(), err.Error()).WithCause(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return 0, err
	}
	return f.Write(buf.Bytes())
}
