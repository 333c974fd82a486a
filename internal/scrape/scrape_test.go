package scrape

import (
	"testing"

	"go-cat-alert/internal/model"
)

const listingHTML = `<!doctype html><html><body>
<div class="gridResult">
  <a href="/detail/A123456"><img src="/img/A123456.jpg"></a>
  <div class="gridText">thumb</div>
  <div class="gridText">Whiskers (A123456)</div>
  <div class="gridText">Female</div>
  <div class="gridText">Black</div>
  <div class="gridText">Domestic Shorthair</div>
  <div class="gridText">2 years 3 weeks old</div>
</div>
<div class="gridResult">
  <div class="gridText">thumb</div>
  <div class="gridText">Mittens (A000001)</div>
  <div class="gridText">male</div>
  <div class="gridText">Orange</div>
  <div class="gridText">Tabby</div>
  <div class="gridText">5 months</div>
</div>
</body></html>`

func TestListing(t *testing.T) {
	cats := Listing(listingHTML, "https://shelter")
	if len(cats) != 2 {
		t.Fatalf("cats len=%d want=2", len(cats))
	}
	c := cats[0]
	if c.Name != "whiskers" || c.ID != "A123456" {
		t.Fatalf("name/id = %q/%q", c.Name, c.ID)
	}
	if c.Gender != model.GenderFemale {
		t.Fatalf("gender = %q", c.Gender)
	}
	if c.Color != "black" || c.Breed != "domestic shorthair" {
		t.Fatalf("color/breed = %q/%q", c.Color, c.Breed)
	}
	if c.Age != 2*model.DaysPerYear+3*model.DaysPerWeek {
		t.Fatalf("age = %d", c.Age)
	}
	if c.URL != "https://shelter/detail/A123456" || c.Image != "https://shelter/img/A123456.jpg" {
		t.Fatalf("urls = %q / %q", c.URL, c.Image)
	}
	// 第二张卡片没有链接与图片，对应字段应为空串
	c = cats[1]
	if c.URL != "" || c.Image != "" {
		t.Fatalf("expect empty urls, got %q / %q", c.URL, c.Image)
	}
	if c.ID != "A000001" || c.Gender != model.GenderMale || c.Age != 150 {
		t.Fatalf("unexpected second cat: %+v", c)
	}
}

func TestListing_Degraded(t *testing.T) {
	// 残缺卡片：没有 gridText 单元格，也没有链接
	cats := Listing(`<div class="gridResult"><span>broken</span></div>`, "https://shelter")
	if len(cats) != 1 {
		t.Fatalf("cats len=%d want=1", len(cats))
	}
	c := cats[0]
	if c.ID != "" || c.Name != "" || c.Gender != model.GenderUnknown || c.Age != 0 {
		t.Fatalf("expect zero-value cat, got %+v", c)
	}
	// 空输入与无卡片输入
	if got := Listing("", "x"); len(got) != 0 {
		t.Fatalf("empty html: %+v", got)
	}
	if got := Listing("<html><body><p>nothing here</p></body></html>", "x"); len(got) != 0 {
		t.Fatalf("no cards: %+v", got)
	}
}

func TestListing_NeverNegativeAge(t *testing.T) {
	for _, ageText := range []string{"", "old", "unknown", "-3 years", "three weeks"} {
		html := `<div class="gridResult">
			<div class="gridText">t</div>
			<div class="gridText">X (A1)</div>
			<div class="gridText">male</div>
			<div class="gridText">c</div>
			<div class="gridText">b</div>
			<div class="gridText">` + ageText + `</div></div>`
		cats := Listing(html, "")
		if len(cats) != 1 || cats[0].Age < 0 {
			t.Fatalf("age for %q: %+v", ageText, cats)
		}
	}
}

func TestParseNameID(t *testing.T) {
	name, id := parseNameID("Whiskers (A123456)")
	if name != "whiskers" || id != "A123456" {
		t.Fatalf("got %q/%q", name, id)
	}
	name, id = parseNameID("Whiskers")
	if name != "" || id != "" {
		t.Fatalf("no-parens should yield empty, got %q/%q", name, id)
	}
	name, id = parseNameID("Mr. Big (a42)")
	if name != "mr. big" || id != "A42" {
		t.Fatalf("got %q/%q", name, id)
	}
}

func TestParseAge(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"2 years, 3 weeks old", 751},
		{"old", 0},
		{"5 months", 150},
		{"1 year", 365},
		{"2 years 3 weeks", 751},
		{"1 year 2 months 3 weeks", 365 + 60 + 21},
		{"", 0},
		{"8 days", 0}, // 按天的粒度有意不解析
	}
	for _, c := range cases {
		if got := parseAge(c.in); got != c.want {
			t.Fatalf("parseAge(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}
