package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// 元数据字段不参与哈希，记录的业务内容不变时哈希保持稳定
var metadataFields = []string{
	"id",
	"create_time",
	"update_time",
	"creator",
	"modifier",
	"deleted_at",
	"db_key",
	"statistics_id",
}

// CalculateResourceHash 计算记录业务字段的哈希值
// 用于判断实例配置是否发生变化，以及远端 settings 文件是否需要重写
func CalculateResourceHash(obj interface{}) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	var objMap map[string]interface{}
	if err := json.Unmarshal(data, &objMap); err != nil {
		return "", err
	}
	for _, field := range metadataFields {
		delete(objMap, field)
	}

	// encoding/json 对 map 按 key 排序输出
	cleanData, err := json.Marshal(objMap)
	if err != nil {
		return "", err
	}
	return Sum(cleanData), nil
}

// Sum 返回内容的 sha256 十六进制摘要
func Sum(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
