package goplus

import (
	"sync"
	"sync/atomic"
)

var (
	defaultGroup     *WaitGroup
	defaultGroupOnce sync.Once
)

func DefaultGroup() *WaitGroup {
	defaultGroupOnce.Do(func() {
		defaultGroup = NewWaitGroup()
	})
	return defaultGroup
}

// Go 在默认分组里起一个带 panic 恢复的协程
func Go(fn func()) {
	DefaultGroup().Go(fn)
}

// WaitGroup 带在飞计数的协程分组。
// Add/Done 供外部调度器（协程池）执行的任务登记用。
type WaitGroup struct {
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

func NewWaitGroup() *WaitGroup {
	return &WaitGroup{}
}

func (s *WaitGroup) Go(fn func()) {
	s.Add()

	go func() {
		defer Recover()
		defer s.Done()

		fn()
	}()
}

func (s *WaitGroup) Add() {
	s.inFlight.Add(1)
	s.wg.Add(1)
}

func (s *WaitGroup) Done() {
	s.inFlight.Add(-1)
	s.wg.Done()
}

func (s *WaitGroup) Wait() {
	s.wg.Wait()
}

// InFlight 当前未完成的任务数
func (s *WaitGroup) InFlight() int64 {
	return s.inFlight.Load()
}
