// Package config 管理 workbench 的配置，优先级为 命令行设置 > 环境变量 > 配置文件 > 默认值
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/share"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

var (
	mu         sync.RWMutex
	v          *viper.Viper
	values     map[string]string
	configFile string
)

func init() {
	if err := LoadConfig(); err != nil {
		values = make(map[string]string)
		v = newViper(values)
	}
}

// newViper 构建带默认值和环境变量的 viper 实例，并叠加文件中的配置
func newViper(fileValues map[string]string) *viper.Viper {
	nv := viper.New()
	nv.SetEnvPrefix(strings.TrimSuffix(share.PREFIX, "_"))
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	nv.AutomaticEnv()

	for key, info := range ConfigKeys {
		nv.SetDefault(key, info.Default)
	}
	for key, value := range fileValues {
		nv.Set(key, value)
	}
	return nv
}

// ConfigFile 返回当前使用的配置文件路径
func ConfigFile() string {
	mu.RLock()
	defer mu.RUnlock()
	return configFile
}

// LoadConfig 从默认位置加载配置
func LoadConfig() error {
	return LoadConfigFile(helper.GetPath(configFileName))
}

// LoadConfigFile 从指定文件加载配置，文件不存在时只使用默认值和环境变量
func LoadConfigFile(path string) error {
	loaded := make(map[string]string)

	fileViper := viper.New()
	fileViper.SetConfigFile(path)
	fileViper.SetConfigType("yaml")
	if err := fileViper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("读取配置文件失败 %s: %w", path, err)
		}
	}
	for _, key := range fileViper.AllKeys() {
		loaded[key] = fileViper.GetString(key)
	}

	mu.Lock()
	defer mu.Unlock()
	configFile = path
	values = loaded
	v = newViper(values)
	return nil
}

// SaveConfig 将显式设置过的配置写回配置文件
func SaveConfig() error {
	mu.RLock()
	data, err := yaml.Marshal(values)
	path := configFile
	mu.RUnlock()
	if err != nil {
		return fmt.Errorf("编码配置失败: %w", err)
	}

	if err := helper.WriteFile(path, data); err != nil {
		return fmt.Errorf("写入配置文件失败 %s: %w", path, err)
	}
	return nil
}

// GetEnvKey 返回配置键对应的环境变量名
func GetEnvKey(flagKey string) string {
	return share.PREFIX + strings.ToUpper(flagKey)
}

// normalizeKey 将 WORKBENCH_LANG 之类的环境变量名转换为配置键 lang
func normalizeKey(key string) string {
	if strings.HasPrefix(key, share.PREFIX) {
		key = strings.TrimPrefix(key, share.PREFIX)
	}
	return strings.ToLower(key)
}

// GetConfig 获取配置值，key 可以是配置键或完整的环境变量名
func GetConfig(key string) string {
	if !strings.HasPrefix(key, share.PREFIX) && strings.ToUpper(key) == key {
		// 非前缀的环境变量直接读取
		if value := os.Getenv(key); value != "" {
			return value
		}
	}

	mu.RLock()
	defer mu.RUnlock()
	return v.GetString(normalizeKey(key))
}

// GetConfigWithDefault 获取配置值，为空时返回默认值
func GetConfigWithDefault(key string, defaultValue string) string {
	value := GetConfig(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// SetConfig 设置配置值，需要调用 SaveConfig 才会持久化
func SetConfig(key, value string) {
	key = normalizeKey(key)

	mu.Lock()
	defer mu.Unlock()
	values[key] = value
	v.Set(key, value)
}

// ClearConfig 清除指定配置，恢复为环境变量或默认值
func ClearConfig(key string) {
	key = normalizeKey(key)

	mu.Lock()
	defer mu.Unlock()
	delete(values, key)
	v = newViper(values)
}

// ClearAllConfig 清除所有显式设置的配置
func ClearAllConfig() {
	mu.Lock()
	defer mu.Unlock()
	values = make(map[string]string)
	v = newViper(values)
}

// GetConfigMap 返回显式设置过的配置副本
func GetConfigMap() map[string]string {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]string, len(values))
	for key, value := range values {
		out[key] = value
	}
	return out
}
