package repository

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"atlas/internal/model"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 500
	MaxPageSize     = 2000
)

var ErrInvalidQuery = errors.New("invalid query")

// Query 列表查询条件
// Sort 为字段名，前缀 "-" 表示降序
type Query struct {
	Filters  []model.Filter
	Sort     string
	Page     int
	PageSize int
}

// Where 追加一个条件，便于链式构造
func (q Query) Where(field string, op model.Op, value interface{}) Query {
	q.Filters = append(append([]model.Filter(nil), q.Filters...), model.Filter{Field: field, Op: op, Value: value})
	return q
}

// fieldSet API 字段名到列名的白名单，调用方传入的字符串不会直接进入 SQL
type fieldSet struct {
	columns map[string]string
	lists   map[string]bool // JSON 序列化的 id 列表，只支持 contains
	times   map[string]bool
}

var codeFields = fieldSet{
	columns: map[string]string{
		"id":           "id",
		"name":         "name",
		"version":      "version",
		"code_type":    "code_type",
		"label":        "label",
		"is_current":   "is_current",
		"commit_hash":  "commit_hash",
		"git_url":      "git_url",
		"dependencies": "dependencies",
		"create_time":  "gmt_create",
		"update_time":  "gmt_modified",
	},
	lists: map[string]bool{"dependencies": true},
	times: map[string]bool{"create_time": true, "update_time": true},
}

var instanceFields = fieldSet{
	columns: map[string]string{
		"id":                   "id",
		"sid":                  "sid",
		"path":                 "path",
		"type":                 "type",
		"status":               "status",
		"pool":                 "pool",
		"update_group":         "update_group",
		"code.core":            "code_core",
		"code.profile":         "code_profile",
		"code.package":         "code_package",
		"routes.primary_route": "routes_primary_route",
		"site_id":              "site_id",
		"statistics_id":        "statistics_id",
		"dates.launched":       "dates_launched",
		"dates.taken_down":     "dates_taken_down",
		"create_time":          "gmt_create",
		"update_time":          "gmt_modified",
	},
	lists: map[string]bool{"code.package": true},
	times: map[string]bool{"create_time": true, "update_time": true, "dates.launched": true, "dates.taken_down": true},
}

var routeFields = fieldSet{
	columns: map[string]string{
		"id":               "id",
		"route_type":       "route_type",
		"route_status":     "route_status",
		"active_on_launch": "active_on_launch",
		"source":           "source",
		"instance_id":      "instance_id",
		"site_id":          "site_id",
		"create_time":      "gmt_create",
	},
	times: map[string]bool{"create_time": true},
}

var siteFields = fieldSet{
	columns: map[string]string{
		"id":          "id",
		"name":        "name",
		"site_type":   "site_type",
		"routes":      "routes",
		"instances":   "instances",
		"create_time": "gmt_create",
	},
	lists: map[string]bool{"routes": true, "instances": true},
	times: map[string]bool{"create_time": true},
}

var statisticsFields = fieldSet{
	columns: map[string]string{
		"id":                   "id",
		"instance_id":          "instance_id",
		"name":                 "name",
		"status":               "status",
		"nodes_total":          "nodes_total",
		"days_since_last_edit": "days_since_last_edit",
		"users_count":          "users_count",
		"create_time":          "gmt_create",
		"update_time":          "gmt_modified",
	},
	times: map[string]bool{"create_time": true, "update_time": true},
}

var backupFields = fieldSet{
	columns: map[string]string{
		"id":          "id",
		"instance_id": "instance_id",
		"backup_type": "backup_type",
		"state":       "state",
		"create_time": "gmt_create",
	},
	times: map[string]bool{"create_time": true},
}

var commandFields = fieldSet{
	columns: map[string]string{
		"id":            "id",
		"name":          "name",
		"single_server": "single_server",
		"create_time":   "gmt_create",
	},
	times: map[string]bool{"create_time": true},
}

// ValidateFilters 检查条件能否作用于实例记录，保存 Command 前调用
func ValidateFilters(filters []model.Filter) error {
	_, _, err := instanceFields.scope(Query{Filters: filters})
	return err
}

// scope 返回条件和排序两部分，Count 只使用条件部分
func (f fieldSet) scope(q Query) (func(*gorm.DB) *gorm.DB, func(*gorm.DB) *gorm.DB, error) {
	type clause struct {
		sql  string
		args []interface{}
	}
	clauses := make([]clause, 0, len(q.Filters))
	for _, filter := range q.Filters {
		column, ok := f.columns[filter.Field]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown field %q", ErrInvalidQuery, filter.Field)
		}
		if f.lists[filter.Field] != (filter.Op == model.OpContains) {
			return nil, nil, fmt.Errorf("%w: operator %q not supported on %q", ErrInvalidQuery, filter.Op, filter.Field)
		}
		value, err := f.coerce(filter)
		if err != nil {
			return nil, nil, err
		}
		switch filter.Op {
		case model.OpEq:
			clauses = append(clauses, clause{column + " = ?", []interface{}{value}})
		case model.OpNe:
			clauses = append(clauses, clause{column + " <> ?", []interface{}{value}})
		case model.OpLt:
			clauses = append(clauses, clause{column + " < ?", []interface{}{value}})
		case model.OpLte:
			clauses = append(clauses, clause{column + " <= ?", []interface{}{value}})
		case model.OpGt:
			clauses = append(clauses, clause{column + " > ?", []interface{}{value}})
		case model.OpGte:
			clauses = append(clauses, clause{column + " >= ?", []interface{}{value}})
		case model.OpIn, model.OpNin:
			values, ok := value.([]interface{})
			if !ok || len(values) == 0 {
				return nil, nil, fmt.Errorf("%w: %q requires a non-empty list", ErrInvalidQuery, filter.Op)
			}
			if filter.Op == model.OpIn {
				clauses = append(clauses, clause{column + " IN ?", []interface{}{values}})
			} else {
				clauses = append(clauses, clause{column + " NOT IN ?", []interface{}{values}})
			}
		case model.OpNull:
			clauses = append(clauses, clause{column + " IS NULL", nil})
		case model.OpNotNull:
			clauses = append(clauses, clause{column + " IS NOT NULL", nil})
		case model.OpContains:
			id, ok := value.(int64)
			if !ok {
				return nil, nil, fmt.Errorf("%w: contains requires an integer id", ErrInvalidQuery)
			}
			sql, args := jsonListContains(column, id)
			clauses = append(clauses, clause{sql, args})
		default:
			return nil, nil, fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, filter.Op)
		}
	}

	order := ""
	if q.Sort != "" {
		field := strings.TrimPrefix(q.Sort, "-")
		column, ok := f.columns[field]
		if !ok || f.lists[field] {
			return nil, nil, fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, field)
		}
		order = column
		if strings.HasPrefix(q.Sort, "-") {
			order += " DESC"
		}
	}

	where := func(db *gorm.DB) *gorm.DB {
		for _, c := range clauses {
			db = db.Where(c.sql, c.args...)
		}
		return db
	}
	sort := func(db *gorm.DB) *gorm.DB {
		if order != "" {
			return db.Order(order + ", id")
		}
		return db.Order("id")
	}
	return where, sort, nil
}

// coerce JSON 解码出的 float64 转为整数，时间字段的字符串解析为 time.Time
func (f fieldSet) coerce(filter model.Filter) (interface{}, error) {
	convert := func(v interface{}) (interface{}, error) {
		switch x := v.(type) {
		case float64:
			if x == math.Trunc(x) {
				return int64(x), nil
			}
			return x, nil
		case int:
			return int64(x), nil
		case string:
			if f.times[filter.Field] {
				t, err := time.Parse(time.RFC3339, x)
				if err != nil {
					return nil, fmt.Errorf("%w: %q is not an RFC3339 time", ErrInvalidQuery, x)
				}
				return t, nil
			}
			return x, nil
		default:
			return v, nil
		}
	}

	switch v := filter.Value.(type) {
	case []interface{}:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			c, err := convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	case []string:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			c, err := convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	case []int64:
		out := make([]interface{}, 0, len(v))
		for _, item := range v {
			out = append(out, item)
		}
		return out, nil
	default:
		return convert(v)
	}
}

// jsonListContains 匹配 JSON 数组文本 "[1,2,3]" 中的某个 id，各数据库通用
func jsonListContains(column string, id int64) (string, []interface{}) {
	s := fmt.Sprint(id)
	return fmt.Sprintf("(%[1]s = ? OR %[1]s LIKE ? OR %[1]s LIKE ? OR %[1]s LIKE ?)", column),
		[]interface{}{"[" + s + "]", "[" + s + ",%", "%," + s + ",%", "%," + s + "]"}
}

func pagination(q Query) (offset, limit int) {
	limit = q.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	return (page - 1) * limit, limit
}

// list 通用的分页列表查询
func list[T any](db *gorm.DB, fields fieldSet, q Query) ([]*T, int64, error) {
	where, sort, err := fields.scope(q)
	if err != nil {
		return nil, 0, err
	}
	var (
		items []*T
		total int64
	)
	if err := db.Model(new(T)).Scopes(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset, limit := pagination(q)
	if err := db.Model(new(T)).Scopes(where, sort).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
