package card

import (
	"fmt"
	"math/rand"
	"strings"
)

// Card 定义一张牌（13 种之一，值相等即同一种牌）
type Card int

const (
	// 特殊牌：影响游戏流程
	Explode Card = iota // 爆炸猫
	Defuse              // 拆弹
	Attack              // 攻击
	Favor               // 索要
	Nope                // 否决
	Shuffle             // 洗牌
	Skip                // 跳过
	Future              // 预知未来（看牌堆顶 3 张）

	// 普通牌：5 种花色，本身无效果，只用于组合
	Tacocat
	Cattermelon
	Potato
	Beard
	Rainbow
)

// cardNames 牌面名称映射表（与线上协议一致，全大写）
var cardNames = map[Card]string{
	Explode:     "EXPLODE",
	Defuse:      "DEFUSE",
	Attack:      "ATTACK",
	Favor:       "FAVOR",
	Nope:        "NOPE",
	Shuffle:     "SHUFFLE",
	Skip:        "SKIP",
	Future:      "FUTURE",
	Tacocat:     "TACOCAT",
	Cattermelon: "CATTERMELLON",
	Potato:      "POTATO",
	Beard:       "BEARD",
	Rainbow:     "RAINBOW",
}

var nameToCard = func() map[string]Card {
	m := make(map[string]Card, len(cardNames))
	for c, name := range cardNames {
		m[name] = c
	}
	return m
}()

func (c Card) String() string {
	if name, ok := cardNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Card(%d)", int(c))
}

// IsSpecial 是否为特殊牌
func (c Card) IsSpecial() bool {
	return c <= Future
}

// IsRegular 是否为普通牌（只能用于两张/三张组合）
func (c Card) IsRegular() bool {
	return c >= Tacocat
}

// FromName 按名称查找牌，大小写不敏感
func FromName(name string) (Card, error) {
	if c, ok := nameToCard[strings.ToUpper(name)]; ok {
		return c, nil
	}
	return -1, fmt.Errorf("不存在的牌: %q", name)
}

// IsName 判断字符串是否是一个合法牌名
func IsName(name string) bool {
	_, ok := nameToCard[strings.ToUpper(name)]
	return ok
}

const (
	instancesFour = 4
	instancesFive = 5
	instancesSix  = 6

	// DeckSize 整副牌的张数
	DeckSize = 56
)

// Deck 定义一摞有序的牌，切片末尾为「牌堆顶」
type Deck []Card

// NewDeck 生成一副完整的 56 张牌：
// 10 种牌各 4 张，FUTURE 和 NOPE 各 5 张，DEFUSE 6 张
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	fourOf := []Card{Explode, Attack, Skip, Favor, Shuffle, Tacocat, Cattermelon, Potato, Beard, Rainbow}
	for i := 0; i < instancesFour; i++ {
		deck = append(deck, fourOf...)
	}
	for i := 0; i < instancesFive; i++ {
		deck = append(deck, Future, Nope)
	}
	for i := 0; i < instancesSix; i++ {
		deck = append(deck, Defuse)
	}
	return deck
}

// Shuffle 原地随机打乱
func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// DrawTop 摸走牌堆顶的一张牌
func (d *Deck) DrawTop() (Card, bool) {
	if len(*d) == 0 {
		return -1, false
	}
	top := (*d)[len(*d)-1]
	*d = (*d)[:len(*d)-1]
	return top, true
}

// PeekTop 查看牌堆顶的 n 张牌（不摸走），下标 0 为最顶上一张。
// 牌不足 n 张时只返回现有的。
func (d Deck) PeekTop(n int) []Card {
	if n > len(d) {
		n = len(d)
	}
	top := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		top = append(top, d[len(d)-1-i])
	}
	return top
}

// InsertAt 把牌插到指定位置，0 为牌堆底，len(d) 为牌堆顶
func (d *Deck) InsertAt(index int, c Card) {
	if index < 0 {
		index = 0
	}
	if index > len(*d) {
		index = len(*d)
	}
	*d = append(*d, 0)
	copy((*d)[index+1:], (*d)[index:])
	(*d)[index] = c
}

// RemoveOne 移除牌堆中任意一张指定的牌
func (d *Deck) RemoveOne(c Card) bool {
	for i, in := range *d {
		if in == c {
			*d = append((*d)[:i], (*d)[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAll 移除牌堆中所有指定种类的牌，返回移除的张数
func (d *Deck) RemoveAll(cards ...Card) int {
	kinds := make(map[Card]bool, len(cards))
	for _, c := range cards {
		kinds[c] = true
	}
	kept := (*d)[:0]
	removed := 0
	for _, in := range *d {
		if kinds[in] {
			removed++
			continue
		}
		kept = append(kept, in)
	}
	*d = kept
	return removed
}

// Pile 弃牌堆，只追加，永不摸回
type Pile []Card

// Add 把牌放到弃牌堆顶
func (p *Pile) Add(cards ...Card) {
	*p = append(*p, cards...)
}

// Top 弃牌堆顶的牌
func (p Pile) Top() (Card, bool) {
	if len(p) == 0 {
		return -1, false
	}
	return p[len(p)-1], true
}

// --- 手牌辅助（手牌是多重集合，同种牌可以有多张） ---

// Count 统计多重集合中某种牌的张数
func Count(hand []Card, c Card) int {
	n := 0
	for _, in := range hand {
		if in == c {
			n++
		}
	}
	return n
}

// Contains 判断手牌中是否有某种牌
func Contains(hand []Card, c Card) bool {
	return Count(hand, c) > 0
}

// RemoveN 从手牌中移除 n 张指定的牌，张数不足时原样返回
func RemoveN(hand []Card, c Card, n int) ([]Card, bool) {
	if Count(hand, c) < n {
		return hand, false
	}
	out := make([]Card, 0, len(hand)-n)
	for _, in := range hand {
		if in == c && n > 0 {
			n--
			continue
		}
		out = append(out, in)
	}
	return out, true
}

// Names 把一组牌转成名称列表（用于协议序列化）
func Names(cards []Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return names
}
