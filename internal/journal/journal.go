package journal

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"position-watcher/internal/interfaces"
	"position-watcher/internal/logger"
	"position-watcher/internal/types"
)

// Entry is one accepted position change. Numbers are written as text so
// NaN from malformed content survives JSON encoding.
type Entry struct {
	Time       string `json:"time"`
	Account    string `json:"account"`
	Instrument string `json:"instrument"`
	Side       string `json:"side"`
	Quantity   string `json:"quantity"`
	Price      string `json:"price"`
}

// Writer appends entries to one JSON-lines file per day.
type Writer struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

func NewWriter(dir string) *Writer {
	if dir == "" {
		dir = "logs"
	}
	return &Writer{dir: dir, now: time.Now}
}

func (w *Writer) Dir() string { return w.dir }

func (w *Writer) dailyFilepath(t time.Time) string {
	return filepath.Join(w.dir, t.Format("2006-01-02")+".txt")
}

// Append writes snap for account/instrument to today's file.
func (w *Writer) Append(account, instrument string, snap types.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	e := Entry{
		Time:       now.Format("2006-01-02 15:04:05.000"),
		Account:    account,
		Instrument: instrument,
		Side:       string(snap.Side),
		Quantity:   formatNumber(snap.Quantity),
		Price:      formatNumber(snap.Price),
	}

	p := w.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// Listener returns a position listener that journals every event it receives.
func (w *Writer) Listener(account, instrument string) interfaces.PositionListener {
	return func(ctx context.Context, snap types.Snapshot) {
		if err := w.Append(account, instrument, snap); err != nil {
			logger.ErrorWithErr(ctx, "Failed to journal position", err,
				"account", account,
				"instrument", instrument,
				"dir", w.dir,
			)
		}
	}
}

// CompressOlder gzips journal files last modified more than retentionDays ago.
func (w *Writer) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := w.now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(w.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		// already compressed on an earlier run
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := compressFile(p, gz); err != nil {
			_ = os.Remove(gz)
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
