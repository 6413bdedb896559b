package utils

import (
	"sort"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/storechain-dev/shop-roster/backend/internal/domain"
)

// CollationKey 返回用于排序的姓名键：中文姓名按拼音排序
// 拼音转换会丢弃非汉字字符，拉丁字母姓名只靠末尾拼接的原始姓名参与排序；
// 原始姓名同时保证同音不同字的姓名也有稳定的全序
func CollationKey(name string) string {
	syllables := pinyin.LazyConvert(name, nil)
	return strings.Join(syllables, " ") + "|" + name
}

// SortShops 按门店 ID 排序，门店层面的确定性依赖 ID 全序
func SortShops(shops []*domain.Shop) {
	sort.Slice(shops, func(i, j int) bool {
		return shops[i].ID < shops[j].ID
	})
}

// SortEmployees 按 (姓名拼音, ID) 对员工做确定性排序
// 排班引擎的平局裁决依赖这个顺序：相同输入必须产生相同输出
func SortEmployees(employees []*domain.Employee) {
	sort.Slice(employees, func(i, j int) bool {
		ki, kj := CollationKey(employees[i].Name), CollationKey(employees[j].Name)
		if ki != kj {
			return ki < kj
		}
		return employees[i].ID < employees[j].ID
	})
}
