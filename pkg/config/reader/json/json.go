package json

import (
	"errors"
	"os"
	"regexp"
	"time"

	"dario.cat/mergo"

	"github.com/basepulse/pulse-agent/pkg/config/encoder"
	"github.com/basepulse/pulse-agent/pkg/config/reader"
	"github.com/basepulse/pulse-agent/pkg/config/source"
)

const READER_NAME string = "json"

type jsonReader struct {
	opts reader.Options
	json encoder.Encoder
}

// NewReader 创建json读取器，所有配置源统一合并成json树
func NewReader(opts ...reader.Option) reader.Reader {
	options := reader.NewOptions(opts...)
	return &jsonReader{
		opts: options,
		json: options.Encoding["json"],
	}
}

func (j *jsonReader) Merge(changes ...*source.ChangeSet) (*source.ChangeSet, error) {
	var merged map[string]interface{}

	for _, m := range changes {
		if m == nil {
			continue
		}

		if len(m.Data) == 0 {
			continue
		}

		codec, ok := j.opts.Encoding[m.Format]
		if !ok {
			// 格式未知时按json处理
			codec = j.json
		}

		var data map[string]interface{}
		if err := codec.Decode(m.Data, &data); err != nil {
			return nil, err
		}
		if err := mergo.Map(&merged, data, mergo.WithOverride); err != nil {
			return nil, err
		}
	}

	b, err := j.json.Encode(merged)
	if err != nil {
		return nil, err
	}

	cs := &source.ChangeSet{
		Timestamp: time.Now(),
		Data:      b,
		Source:    "json",
		Format:    j.json.String(),
	}
	cs.Checksum = cs.Sum()

	return cs, nil
}

func (j *jsonReader) Values(ch *source.ChangeSet) (reader.Values, error) {
	if ch == nil {
		return nil, errors.New("changeset is nil")
	}
	if ch.Format != "json" && ch.Format != "yaml" {
		return nil, errors.New("unsupported format: " + ch.Format)
	}
	return newValues(ch)
}

func (j *jsonReader) String() string {
	return READER_NAME
}

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// ReplaceEnvVars 替换配置内容中的 ${VAR} 环境变量占位符
func ReplaceEnvVars(data []byte) ([]byte, error) {
	replaced := envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
	return replaced, nil
}
