// Package player 定义参赛者名单以及按总量裁决胜者的规则。
package player

import (
	"errors"
	"fmt"
	"strings"
)

// ID 是参赛者的标识，例如 "safari"
type ID string

// 默认的两位参赛者，顺序即平局裁决顺序
const (
	Safari  ID = "safari"
	Brielle ID = "brielle"
)

// Totals 记录每位参赛者的饮水总量(盎司)
type Totals map[ID]int

// Roster 是一个封闭、有序的参赛者集合。
// 排在最前面的是主参赛者(primary)，总量相同时由其获胜。
type Roster struct {
	order []ID
	index map[ID]int
}

// DefaultRoster 返回 safari、brielle 两人的名单
func DefaultRoster() *Roster {
	r, _ := NewRoster(string(Safari), string(Brielle))
	return r
}

// NewRoster 按给定顺序创建名单，标识会被转为小写
func NewRoster(ids ...string) (*Roster, error) {
	if len(ids) == 0 {
		return nil, errors.New("参赛者名单不能为空")
	}
	r := &Roster{
		order: make([]ID, 0, len(ids)),
		index: make(map[ID]int, len(ids)),
	}
	for _, raw := range ids {
		id := ID(strings.ToLower(strings.TrimSpace(raw)))
		if id == "" {
			return nil, errors.New("参赛者标识不能为空")
		}
		if _, dup := r.index[id]; dup {
			return nil, fmt.Errorf("参赛者 %s 重复出现", id)
		}
		r.index[id] = len(r.order)
		r.order = append(r.order, id)
	}
	return r, nil
}

// IDs 返回按名单顺序排列的参赛者副本
func (r *Roster) IDs() []ID {
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}

// Primary 返回主参赛者
func (r *Roster) Primary() ID {
	return r.order[0]
}

// Contains 判断id是否在名单中
func (r *Roster) Contains(id ID) bool {
	_, ok := r.index[id]
	return ok
}

// Lookup 按名单校验一个原始字符串，大小写不敏感
func (r *Roster) Lookup(raw string) (ID, bool) {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	return id, r.Contains(id)
}

// ZeroTotals 返回每位参赛者都为0的Totals，调用方无需做存在性检查
func (r *Roster) ZeroTotals() Totals {
	t := make(Totals, len(r.order))
	for _, id := range r.order {
		t[id] = 0
	}
	return t
}

// Leader 选出总量严格最大的参赛者；并列时取名单中靠前者。
// 所有人都为0时 ok 为 false。
func (r *Roster) Leader(t Totals) (winner ID, amount int, ok bool) {
	for _, id := range r.order {
		if v := t[id]; v > amount {
			winner, amount = id, v
		}
	}
	return winner, amount, amount > 0
}
