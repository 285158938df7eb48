package fetcher

import (
	"context"
	"io"
	"net"
	"net/url"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// FTPFetcher downloads exports from FTP mirrors. FTP offers no validator,
// so every Fetch reports the export as changed.
type FTPFetcher struct {
	Timeout time.Duration
}

// NewFTPFetcher creates an FTPFetcher; a zero timeout means 30s.
func NewFTPFetcher(timeout time.Duration) *FTPFetcher {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &FTPFetcher{Timeout: timeout}
}

type ftpTarget struct {
	addr     string
	path     string
	user     string
	password string
}

// parseFTPURL splits an ftp:// URL into address, path and credentials.
// Missing credentials mean anonymous login; a missing port means 21.
func parseFTPURL(rawURL string) (ftpTarget, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ftpTarget{}, eris.Wrap(err, "ftp: parse url")
	}
	if u.Scheme != "ftp" {
		return ftpTarget{}, eris.Errorf("ftp: expected ftp scheme, got %q", u.Scheme)
	}
	if u.Path == "" || u.Path == "/" {
		return ftpTarget{}, eris.Errorf("ftp: no file path in %q", rawURL)
	}

	t := ftpTarget{addr: u.Host, path: u.Path, user: "anonymous", password: "anonymous@"}
	if u.Port() == "" {
		t.addr = net.JoinHostPort(u.Hostname(), "21")
	}
	if u.User != nil {
		t.user = u.User.Username()
		t.password, _ = u.User.Password()
	}
	return t, nil
}

type ftpBody struct {
	resp *ftp.Response
	conn *ftp.ServerConn
}

func (b *ftpBody) Read(p []byte) (int, error) { return b.resp.Read(p) }

func (b *ftpBody) Close() error {
	err := b.resp.Close()
	if qerr := b.conn.Quit(); err == nil && qerr != nil {
		err = qerr
	}
	if err != nil {
		return eris.Wrap(err, "ftp: close")
	}
	return nil
}

// Fetch retrieves the file; closing the body ends the FTP session.
func (f *FTPFetcher) Fetch(ctx context.Context, rawURL, _ string) (io.ReadCloser, string, bool, error) {
	t, err := parseFTPURL(rawURL)
	if err != nil {
		return nil, "", false, err
	}
	zap.L().Debug("ftp: connecting", zap.String("addr", t.addr), zap.String("path", t.path))

	conn, err := ftp.Dial(t.addr, ftp.DialWithTimeout(f.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, "", false, eris.Wrap(err, "ftp: dial")
	}
	if err := conn.Login(t.user, t.password); err != nil {
		_ = conn.Quit()
		return nil, "", false, eris.Wrap(err, "ftp: login")
	}
	resp, err := conn.Retr(t.path)
	if err != nil {
		_ = conn.Quit()
		return nil, "", false, eris.Wrap(err, "ftp: retrieve")
	}
	return &ftpBody{resp: resp, conn: conn}, "", true, nil
}
