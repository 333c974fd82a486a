// 包 scrape 负责解析收容所列表页：
// - 按 div.gridResult 逐卡片抽取猫咪记录
// - 单个字段解析失败只降级该字段，不影响整条记录与整批结果
package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"go-cat-alert/internal/logx"
	"go-cat-alert/internal/model"
)

// 站点的卡片结构固定，选择器直接内置为常量。
const (
	cardSelector = "div.gridResult"
	textSelector = "div.gridText"
)

// gridText 单元格的固定含义（下标 0 为缩略图标题，跳过）。
const (
	fieldNameID = 1
	fieldGender = 2
	fieldColor  = 3
	fieldBreed  = 4
	fieldAge    = 5
)

var (
	// 组合文本形如 "Whiskers (A123456)"
	nameIDRe = regexp.MustCompile(`^(.*)\s\((.*)\)$`)
	yearRe   = regexp.MustCompile(`(\d+)\s*year(?:s)?`)
	monthRe  = regexp.MustCompile(`(\d+)\s*month(?:s)?`)
	weekRe   = regexp.MustCompile(`(\d+)\s*week(?:s)?`)
)

// Listing 从列表页 HTML 解析全部猫咪记录。永不失败：
// HTML 非法或卡片残缺时产出字段为默认值的记录，返回切片可能为空。
func Listing(html, baseURL string) []model.Cat {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logx.Warnf("解析列表页 HTML 失败：%v", err)
		return nil
	}
	var cats []model.Cat
	doc.Find(cardSelector).Each(func(_ int, s *goquery.Selection) {
		cats = append(cats, parseCard(s, baseURL))
	})
	return cats
}

// parseCard 解析单张卡片；缺失的元素让对应字段保持默认值。
func parseCard(s *goquery.Selection, baseURL string) model.Cat {
	cat := model.Cat{Gender: model.GenderUnknown}
	if href, ok := s.Find("a[href]").First().Attr("href"); ok {
		cat.URL = baseURL + href
	}
	if src, ok := s.Find("img[src]").First().Attr("src"); ok {
		cat.Image = baseURL + src
	}
	fields := s.Find(textSelector)
	if fields.Length() == 0 {
		return cat
	}
	cat.Name, cat.ID = parseNameID(text(fields, fieldNameID))
	cat.Gender = model.ParseGender(text(fields, fieldGender))
	cat.Color = strings.ToLower(text(fields, fieldColor))
	cat.Breed = strings.ToLower(text(fields, fieldBreed))
	cat.Age = parseAge(text(fields, fieldAge))
	return cat
}

// text 取第 i 个单元格的去空白文本，越界返回空串。
func text(fields *goquery.Selection, i int) string {
	return strings.TrimSpace(fields.Eq(i).Text())
}

// parseNameID 拆解 "<name> (<id>)" 组合文本：
// 命中时 name 小写、id 大写；不匹配时两者均为空串。
func parseNameID(s string) (name, id string) {
	m := nameIDRe.FindStringSubmatch(s)
	if m == nil {
		return "", ""
	}
	return strings.ToLower(m[1]), strings.ToUpper(m[2])
}

// parseAge 把相对年龄描述换算为天数：去掉字面量 "old" 后，
// 分别匹配 年/月/周 三种模式并求和，全部未命中返回 0。
// 站点偶尔出现按天的粒度，这里有意不解析。
func parseAge(s string) int {
	s = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "old", "")))
	age := 0
	for _, p := range []struct {
		re   *regexp.Regexp
		days int
	}{
		{yearRe, model.DaysPerYear},
		{monthRe, model.DaysPerMonth},
		{weekRe, model.DaysPerWeek},
	} {
		if m := p.re.FindStringSubmatch(s); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				age += n * p.days
			}
		}
	}
	return age
}
