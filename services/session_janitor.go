package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/menu-admin/utils"
)

// SessionJanitor periodically evicts idle sessions from a SessionStore.
type SessionJanitor struct {
	Store    *SessionStore
	MaxIdle  time.Duration
	Interval time.Duration
	StopChan chan struct{}

	stopOnce sync.Once
}

func NewSessionJanitor(store *SessionStore, maxIdle time.Duration) *SessionJanitor {
	interval := maxIdle / 4
	if interval < time.Second {
		interval = time.Second
	}
	return &SessionJanitor{
		Store:    store,
		MaxIdle:  maxIdle,
		Interval: interval,
		StopChan: make(chan struct{}),
	}
}

func (sj *SessionJanitor) Start() {
	go func() {
		ticker := time.NewTicker(sj.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sj.sweep()
			case <-sj.StopChan:
				return
			}
		}
	}()
}

func (sj *SessionJanitor) Stop() {
	sj.stopOnce.Do(func() {
		close(sj.StopChan)
	})
}

func (sj *SessionJanitor) sweep() {
	if dropped := sj.Store.Sweep(sj.MaxIdle); dropped > 0 {
		utils.InfoLogger.WithField("dropped", dropped).Info("evicted idle sessions")
	}
}
