// Package datekey 负责把时间点换算为规范的日期键(YYYY-MM-DD)。
// 日期键按字典序比较即等于按日期比较，所有账本的区间查询都依赖这一点。
package datekey

import (
	"fmt"
	"sync"
	"time"

	"github.com/SlpAus/water-wars-backend/internal/platform/apperror"
)

// Layout 是日期键使用的时间格式
const Layout = "2006-01-02"

// Key 是一个规范的日历日期字符串
type Key string

// FromTime 取t在其自身时区下的日历日期
func FromTime(t time.Time) Key {
	return Key(t.Format(Layout))
}

// Parse 校验并规范化一个日期字符串
func Parse(s string) (Key, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", apperror.Invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", s))
	}
	return FromTime(t), nil
}

// MustParse 用于常量和测试
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Time 返回该日期UTC零点的时间
func (k Key) Time() time.Time {
	t, _ := time.Parse(Layout, string(k))
	return t
}

// AddDays 返回偏移n天后的日期键，n可以为负
func (k Key) AddDays(n int) Key {
	return FromTime(k.Time().AddDate(0, 0, n))
}

func (k Key) String() string {
	return string(k)
}

// Provider 是“今天”的唯一权威来源，业务逻辑不直接读取系统时钟。
type Provider interface {
	Now() time.Time
	Today() Key
}

// SystemProvider 读取系统时钟，并在配置的时区下计算日期
type SystemProvider struct {
	loc *time.Location
}

// NewSystemProvider 创建系统时钟提供者，loc为nil时使用time.Local
func NewSystemProvider(loc *time.Location) *SystemProvider {
	if loc == nil {
		loc = time.Local
	}
	return &SystemProvider{loc: loc}
}

func (p *SystemProvider) Now() time.Time {
	return time.Now().In(p.loc)
}

func (p *SystemProvider) Today() Key {
	return FromTime(p.Now())
}

// FixedProvider 返回一个可手动设置的时间点，供测试和CLI的 --date 覆盖使用。
type FixedProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedProvider 创建固定于now的时钟
func NewFixedProvider(now time.Time) *FixedProvider {
	return &FixedProvider{now: now}
}

// NewFixedProviderAt 创建固定于某日正午的时钟
func NewFixedProviderAt(day Key) *FixedProvider {
	return NewFixedProvider(day.Time().Add(12 * time.Hour))
}

func (p *FixedProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

func (p *FixedProvider) Today() Key {
	return FromTime(p.Now())
}

// Set 把时钟拨到t
func (p *FixedProvider) Set(t time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = t
}

// Advance 把时钟向前拨d
func (p *FixedProvider) Advance(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = p.now.Add(d)
}

// Window 计算以今天结尾、恰好包含days个日历日的闭区间。
// maxDays<=0 表示不设上限。
func Window(p Provider, days, maxDays int) (from, to Key, err error) {
	if days < 1 {
		return "", "", apperror.Invalid("days", "window must cover at least one day")
	}
	if maxDays > 0 && days > maxDays {
		return "", "", apperror.Invalid("days", fmt.Sprintf("window may not exceed %d days", maxDays))
	}
	to = p.Today()
	from = to.AddDays(-(days - 1))
	return from, to, nil
}

// Days 枚举闭区间[from, to]内的每一天，from晚于to时返回空
func Days(from, to Key) []Key {
	var keys []Key
	for k := from; k <= to; k = k.AddDays(1) {
		keys = append(keys, k)
	}
	return keys
}
