package source

import (
	"crypto/md5"
	"errors"
	"fmt"
	"time"
)

// ErrWatcherStopped 监听器已停止
var ErrWatcherStopped = errors.New("watcher stopped")

// Source 配置源接口
type Source interface {
	Read() (*ChangeSet, error)
	Write(*ChangeSet) error
	Watch() (Watcher, error)
	String() string
}

// Watcher 配置变更监听器
type Watcher interface {
	Next() (*ChangeSet, error)
	Stop() error
}

// ChangeSet 一次配置读取的快照
type ChangeSet struct {
	Data      []byte
	Checksum  string
	Format    string
	Source    string
	Timestamp time.Time
}

// Sum 计算配置数据的md5校验和
func (c *ChangeSet) Sum() string {
	h := md5.New()
	h.Write(c.Data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
