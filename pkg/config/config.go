package config

import (
	"sync"

	"github.com/basepulse/pulse-agent/pkg/config/loader"
	"github.com/basepulse/pulse-agent/pkg/config/loader/memory"
	"github.com/basepulse/pulse-agent/pkg/config/reader"
	"github.com/basepulse/pulse-agent/pkg/config/reader/json"
	"github.com/basepulse/pulse-agent/pkg/config/source"
)

type Options struct {
	Loader loader.Loader
	Reader reader.Reader
	Source []source.Source
}

type Option func(o *Options)

// Config 配置管理入口
type Config interface {
	// Load 加载配置源
	Load(source ...source.Source) error
	// Scan 将整棵配置树反序列化到结构体
	Scan(v interface{}) error
	// Get 按路径获取配置项
	Get(path ...string) reader.Value
	// Bytes 合并后的配置内容
	Bytes() []byte
	// Close 关闭配置管理
	Close() error
}

type config struct {
	opts Options

	sync.RWMutex
	vals reader.Values
}

func newConfig(opts ...Option) Config {
	options := Options{
		Reader: json.NewReader(),
	}
	for _, o := range opts {
		o(&options)
	}
	if options.Loader == nil {
		options.Loader = memory.NewLoader()
	}

	return &config{opts: options}
}

func (c *config) Load(sources ...source.Source) error {
	if err := c.opts.Loader.Load(sources...); err != nil {
		return err
	}
	return c.refresh()
}

// refresh 从加载器快照重建Values
func (c *config) refresh() error {
	snap, err := c.opts.Loader.Snapshot()
	if err != nil {
		return err
	}

	vals, err := c.opts.Reader.Values(snap.ChangeSet)
	if err != nil {
		return err
	}

	c.Lock()
	c.vals = vals
	c.Unlock()
	return nil
}

func (c *config) Scan(v interface{}) error {
	// 读取前同步一次，保证拿到最新的文件内容
	if err := c.opts.Loader.Sync(); err != nil {
		return err
	}
	if err := c.refresh(); err != nil {
		return err
	}

	c.RLock()
	defer c.RUnlock()
	return c.vals.Scan(v)
}

func (c *config) Get(path ...string) reader.Value {
	c.RLock()
	defer c.RUnlock()
	return c.vals.Get(path...)
}

func (c *config) Bytes() []byte {
	c.RLock()
	defer c.RUnlock()
	if c.vals == nil {
		return nil
	}
	return c.vals.Bytes()
}

func (c *config) Close() error {
	return c.opts.Loader.Stop()
}

// 默认全局配置实例
var (
	defaultConfig Config
	defaultOnce   sync.Once
)

func Default() Config {
	defaultOnce.Do(func() {
		defaultConfig = newConfig()
	})
	return defaultConfig
}

// Load 向默认配置实例加载配置源
func Load(sources ...source.Source) error {
	return Default().Load(sources...)
}

// Scan 反序列化默认配置实例的整棵配置树
func Scan(v interface{}) error {
	return Default().Scan(v)
}

// Get 从默认配置实例按路径取值
func Get(path ...string) reader.Value {
	return Default().Get(path...)
}

// Close 关闭默认配置实例
func Close() error {
	return Default().Close()
}
