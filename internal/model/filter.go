package model

// Op 查询比较运算符
type Op string

const (
	OpEq       Op = "eq"
	OpNe       Op = "ne"
	OpIn       Op = "in"
	OpNin      Op = "nin"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpNull     Op = "null"
	OpNotNull  Op = "notnull"
	OpContains Op = "contains" // JSON 列表字段包含某个 id
)

// Filter 一个 (字段, 运算符, 值) 条件，多个条件之间为 AND
type Filter struct {
	Field string      `json:"field"`
	Op    Op          `json:"op"`
	Value interface{} `json:"value,omitempty"`
}
