package loader

import (
	"github.com/basepulse/pulse-agent/pkg/config/reader"
	"github.com/basepulse/pulse-agent/pkg/config/source"
)

// Loader 配置加载器，管理配置源并维护合并后的快照
type Loader interface {
	// Load 加载若干配置源
	Load(...source.Source) error

	// Snapshot 获取当前合并后的配置快照
	Snapshot() (*Snapshot, error)

	// Sync 强制重新读取所有配置源
	Sync() error

	// Stop 停止加载器及其监听
	Stop() error

	// String 加载器名称
	String() string
}

// Snapshot 某一时刻的合并配置
type Snapshot struct {
	ChangeSet *source.ChangeSet
	// Version 快照版本（变更集校验和）
	Version string
}

// Copy 深拷贝快照
func Copy(s *Snapshot) *Snapshot {
	cs := *s.ChangeSet
	return &Snapshot{
		ChangeSet: &cs,
		Version:   s.Version,
	}
}

type Options struct {
	Reader reader.Reader
	Source []source.Source
}

type Option func(o *Options)
