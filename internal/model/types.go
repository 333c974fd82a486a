// 包 model 定义核心数据模型（猫咪记录/性别枚举/年龄换算）。
package model

import (
	"fmt"
	"strings"
)

// 年龄换算常量，与来源站点的口径保持一致。
const (
	DaysPerYear  = 365
	DaysPerMonth = 30
	DaysPerWeek  = 7
)

// Gender 为性别枚举；解析不出的一律归为 Unknown，保证比较总是可行。
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// ParseGender 在固定词表内做大小写不敏感匹配，未命中返回 Unknown。
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// Cat 表示一条收容所在架记录。ID 为站点分配的唯一编号（统一大写），
// 也是前后两轮比对的主键；Name/Color/Breed 统一小写；Age 为天数。
type Cat struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Color  string `json:"color"`
	Breed  string `json:"breed"`
	Age    int    `json:"age"`
	URL    string `json:"url"`
	Image  string `json:"image"`
}

// HumanAge 把天数拆解为 年/月/周/天：从大单位到小单位贪心取整，
// 只保留非零部分并处理单复数，用逗号连接；0 天返回空串。
func (c Cat) HumanAge() string {
	days := c.Age

	years := days / DaysPerYear
	days %= DaysPerYear
	months := days / DaysPerMonth
	days %= DaysPerMonth
	weeks := days / DaysPerWeek
	days %= DaysPerWeek

	var parts []string
	add := func(n int, unit string) {
		if n <= 0 {
			return
		}
		if n == 1 {
			parts = append(parts, "1 "+unit)
		} else {
			parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
		}
	}
	add(years, "year")
	add(months, "month")
	add(weeks, "week")
	add(days, "day")
	return strings.Join(parts, ", ")
}

// String 输出多行摘要，供日志通知使用。
func (c Cat) String() string {
	return fmt.Sprintf(
		"id: %s\nname: %s\ngender: %s\ncolor: %s\nbreed: %s\nage: %s\nurl: %s\nimage: %s",
		c.ID, c.Name, c.Gender, c.Color, c.Breed, c.HumanAge(), c.URL, c.Image)
}
