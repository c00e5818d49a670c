package memory

import (
	"errors"
	"sync"

	"github.com/basepulse/pulse-agent/pkg/config/loader"
	"github.com/basepulse/pulse-agent/pkg/config/reader/json"
	"github.com/basepulse/pulse-agent/pkg/config/source"
)

type memory struct {
	opts loader.Options

	sync.RWMutex
	// 各配置源最近一次读取结果，与sources下标对应
	sets    []*source.ChangeSet
	sources []source.Source

	snap    *loader.Snapshot
	watched bool
	exit    chan struct{}
}

// NewLoader 创建内存加载器
func NewLoader(opts ...loader.Option) loader.Loader {
	options := loader.Options{
		Reader: json.NewReader(),
	}
	for _, o := range opts {
		o(&options)
	}

	m := &memory{
		opts: options,
		exit: make(chan struct{}),
	}

	if len(options.Source) > 0 {
		_ = m.Load(options.Source...)
	}

	return m
}

func (m *memory) Load(sources ...source.Source) error {
	for _, s := range sources {
		set, err := s.Read()
		if err != nil {
			return err
		}

		m.Lock()
		m.sources = append(m.sources, s)
		m.sets = append(m.sets, set)
		idx := len(m.sets) - 1
		m.Unlock()

		go m.watch(idx, s)
	}

	return m.reload()
}

// reload 重新合并所有变更集并刷新快照
func (m *memory) reload() error {
	m.Lock()
	defer m.Unlock()

	set, err := m.opts.Reader.Merge(m.sets...)
	if err != nil {
		return err
	}

	m.snap = &loader.Snapshot{
		ChangeSet: set,
		Version:   set.Checksum,
	}
	return nil
}

// watch 监听单个配置源的变更
func (m *memory) watch(idx int, s source.Source) {
	w, err := s.Watch()
	if err != nil {
		// 配置源不支持监听时静默退出
		return
	}

	done := make(chan struct{})
	go func() {
		select {
		case <-done:
		case <-m.exit:
		}
		w.Stop()
	}()
	defer close(done)

	for {
		cs, err := w.Next()
		if err != nil {
			return
		}

		m.Lock()
		m.sets[idx] = cs
		m.Unlock()

		if err := m.reload(); err != nil {
			return
		}
	}
}

func (m *memory) Snapshot() (*loader.Snapshot, error) {
	m.RLock()
	defer m.RUnlock()

	if m.snap == nil {
		return nil, errors.New("no configuration loaded")
	}
	return loader.Copy(m.snap), nil
}

func (m *memory) Sync() error {
	m.Lock()
	for i, s := range m.sources {
		set, err := s.Read()
		if err != nil {
			m.Unlock()
			return err
		}
		m.sets[i] = set
	}
	m.Unlock()

	return m.reload()
}

func (m *memory) Stop() error {
	select {
	case <-m.exit:
	default:
		close(m.exit)
	}
	return nil
}

func (m *memory) String() string {
	return "memory"
}
