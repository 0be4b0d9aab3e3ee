package ota

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// ioTimeout is how long a client may stay silent before it is dropped.
// It restarts with every chunk, so a long upload is fine as long as it moves.
var ioTimeout = 10 * time.Second

const (
	// acceptWait bounds each non-blocking accept poll.
	acceptWait = time.Millisecond
	chunkSize  = 4096

	formField = "firmware"
)

const uploadPage = `<!DOCTYPE html>
<html><head><title>PocketOS update</title>
<meta name="viewport" content="width=device-width, initial-scale=1"></head>
<body style="font-family:sans-serif;text-align:center">
<h1>PocketOS update</h1>
<form method="POST" action="/update" enctype="multipart/form-data">
<input type="file" name="firmware" required><br><br>
<input type="submit" value="Upload">
</form></body></html>
`

type deadliner interface {
	SetDeadline(t time.Time) error
}

var errNoDeadline = errors.New("ota: listener cannot poll")

// poll accepts one pending connection, or returns nil when none is waiting.
func poll(ln net.Listener) (net.Conn, error) {
	d, ok := ln.(deadliner)
	if !ok {
		return nil, errNoDeadline
	}
	if err := d.SetDeadline(time.Now().Add(acceptWait)); err != nil {
		return nil, err
	}
	conn, err := ln.Accept()
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return nil, nil
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil, nil
		}
		return nil, err
	}
	return conn, nil
}

func respond(w io.Writer, code int, contentType, body string) error {
	resp := &http.Response{
		StatusCode:    code,
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": {contentType}},
		ContentLength: int64(len(body)),
		Body:          io.NopCloser(strings.NewReader(body)),
		Close:         true,
	}
	return resp.Write(w)
}

// transfer is an upload in progress. Each step moves one chunk from the
// request body into the stager.
type transfer struct {
	conn  net.Conn
	part  *multipart.Part
	total int64
	read  int64
	st    *Stager
	buf   []byte
}

// Progress is the share of the request body consumed, capped at 99 until
// the image is committed.
func (x *transfer) Progress() int {
	if x.total <= 0 {
		return 0
	}
	p := int(x.read * 100 / x.total)
	if p > 99 {
		p = 99
	}
	return p
}

// step copies one chunk. It reports done at the end of the part.
func (x *transfer) step() (done bool, err error) {
	_ = x.conn.SetReadDeadline(time.Now().Add(ioTimeout))
	n, rerr := x.part.Read(x.buf)
	if n > 0 {
		x.read += int64(n)
		if _, err := x.st.Write(x.buf[:n]); err != nil {
			return false, err
		}
	}
	if rerr == io.EOF {
		return true, nil
	}
	return false, rerr
}

func (x *transfer) finish(code int, msg string) {
	_ = x.conn.SetWriteDeadline(time.Now().Add(ioTimeout))
	_ = respond(x.conn, code, "text/plain", msg)
	_ = x.conn.Close()
}

// serve reads one request from conn. A GET of the root gets the upload
// form; a POST to /update with a firmware part starts a transfer. Every
// other request is answered and closed here.
func serve(conn net.Conn, st *Stager) (*transfer, error) {
	_ = conn.SetDeadline(time.Now().Add(ioTimeout))
	req, err := http.ReadRequest(bufio.NewReader(conn))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ota: read request: %w", err)
	}

	switch {
	case req.Method == http.MethodGet && req.URL.Path == "/":
		err := respond(conn, http.StatusOK, "text/html", uploadPage)
		conn.Close()
		return nil, err

	case req.Method == http.MethodPost && req.URL.Path == "/update":
		mr, err := req.MultipartReader()
		if err != nil {
			_ = respond(conn, http.StatusBadRequest, "text/plain", "expected multipart upload")
			conn.Close()
			return nil, fmt.Errorf("ota: %w", err)
		}
		for {
			part, err := mr.NextPart()
			if err != nil {
				_ = respond(conn, http.StatusBadRequest, "text/plain", "missing firmware field")
				conn.Close()
				return nil, fmt.Errorf("ota: no %s part: %w", formField, err)
			}
			if part.FormName() == formField {
				return &transfer{conn: conn, part: part, total: req.ContentLength, st: st, buf: make([]byte, chunkSize)}, nil
			}
		}

	default:
		err := respond(conn, http.StatusNotFound, "text/plain", "not found")
		conn.Close()
		return nil, err
	}
}
