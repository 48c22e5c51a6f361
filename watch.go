package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/radovskyb/watcher"
)

// A change is one file system event under the data directory.
type change struct {
	Op, Path string
}

func (c change) String() string { return c.Op + " " + c.Path }

type changeSource interface {
	Changes() <-chan change
	Errors() <-chan error
	Close() error
}

func newChangeSource(conf *SiteConf) (changeSource, error) {
	switch conf.WatchMode {
	case watchPoll:
		return newPollSource(conf.DataDir, conf.WatchInterval)
	case watchNotify, "":
		return newNotifySource(conf.DataDir)
	}
	return nil, fmt.Errorf("unknown watch mode %q", conf.WatchMode)
}

// rerenderOnChange rebuilds the site for every change reported by src until
// ctx is done or a rebuild fails. There is no debouncing: a burst of changes
// is a burst of rebuilds.
func rerenderOnChange(ctx context.Context, conf *SiteConf, src changeSource) error {
	log.Println("Watching " + conf.DataDir + " for changes...")

	for {
		select {
		case c, ok := <-src.Changes():
			if !ok {
				return nil
			}
			log.Println("Change: " + c.String())
			if err := rebuild(conf); err != nil {
				return err
			}
		case err, ok := <-src.Errors():
			if !ok {
				return nil
			}
			log.Println(err)
		case <-ctx.Done():
			return nil
		}
	}
}

// pollSource polls the data directory with radovskyb/watcher.
type pollSource struct {
	w       *watcher.Watcher
	changes chan change
	errs    chan error
	done    chan struct{}
}

func newPollSource(dir string, interval time.Duration) (*pollSource, error) {
	w := watcher.New()
	if err := w.AddRecursive(dir); err != nil {
		return nil, fmt.Errorf("cannot watch %v: %w", dir, err)
	}

	s := &pollSource{
		w:       w,
		changes: make(chan change),
		errs:    make(chan error),
		done:    make(chan struct{}),
	}

	go s.forward()
	go func() {
		if err := w.Start(interval); err != nil {
			select {
			case s.errs <- err:
			case <-s.done:
			}
		}
	}()

	return s, nil
}

// forward keeps draining the watcher after Close so that the watcher is
// never stuck delivering an event while it is asked to stop.
func (s *pollSource) forward() {
	for {
		select {
		case ev := <-s.w.Event:
			select {
			case s.changes <- change{Op: ev.Op.String(), Path: ev.Path}:
			case <-s.done:
			}
		case err := <-s.w.Error:
			select {
			case s.errs <- err:
			case <-s.done:
			}
		case <-s.w.Closed:
			return
		}
	}
}

func (s *pollSource) Changes() <-chan change { return s.changes }

func (s *pollSource) Errors() <-chan error { return s.errs }

func (s *pollSource) Close() error {
	close(s.done)
	s.w.Close()
	return nil
}

// notifySource subscribes to native file system notifications for the data
// directory and every directory below it.
type notifySource struct {
	w       *fsnotify.Watcher
	changes chan change
	done    chan struct{}
}

func newNotifySource(dir string) (*notifySource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("cannot create watcher: %w", err)
	}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("cannot watch %v: %w", dir, err)
	}

	s := &notifySource{
		w:       w,
		changes: make(chan change),
		done:    make(chan struct{}),
	}
	go s.forward()
	return s, nil
}

func (s *notifySource) forward() {
	defer close(s.changes)
	for {
		select {
		case ev, ok := <-s.w.Events:
			if !ok {
				return
			}
			// New directories are not watched by fsnotify on their own.
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := s.w.Add(ev.Name); err != nil {
						log.Printf("Error watching new directory %v: %v", ev.Name, err)
					}
				}
			}
			select {
			case s.changes <- change{Op: ev.Op.String(), Path: ev.Name}:
			case <-s.done:
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *notifySource) Changes() <-chan change { return s.changes }

func (s *notifySource) Errors() <-chan error { return s.w.Errors }

func (s *notifySource) Close() error {
	close(s.done)
	return s.w.Close()
}
