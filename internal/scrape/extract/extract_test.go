package extract_test

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KhuatDuy04/crawl/internal/domain"
	"github.com/KhuatDuy04/crawl/internal/scrape/extract"
)

const pageURL = "https://123job.vn/viec-lam/backend-engineer-go-123.html"

func loadDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	doc.Url, err = url.Parse(pageURL)
	require.NoError(t, err)
	return doc
}

func loadFixture(t *testing.T) *goquery.Document {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "detail.html"))
	require.NoError(t, err)
	return loadDoc(t, string(b))
}

func TestApplyDefaultTable(t *testing.T) {
	rs := extract.MustDefault()
	rec := rs.Apply(loadFixture(t))

	want := domain.JobRecord{
		Title:               "Backend Engineer (Go)",
		Company:             "Backend Solutions JSC",
		Salary:              "15 - 25 triệu",
		Location:            "Hà Nội",
		Experience:          "2 năm",
		Level:               "Nhân viên",
		WorkingForm:         "Toàn thời gian",
		Deadline:            "30/11/2026",
		Shift:               "Hành chính",
		Degree:              "Đại học",
		Age:                 "22 - 35",
		Quantity:            "3",
		Field:               "IT phần mềm",
		Description:         "<p>Build APIs in Go.</p>",
		Requirement:         "<ul><li>SQL</li></ul>",
		Benefit:             "<p>Lương tháng 13</p>",
		CompanyLogo:         "https://123job.vn/uploads/logo/backend-solutions.png",
		CompanySize:         "100-499 nhân viên",
		CompanyHeadquarters: "Cầu Giấy, Hà Nội",
		ContactName:         "Nguyễn Văn A",
		ContactPhone:        "0901234567",
	}
	assert.Equal(t, want, rec)
}

func TestApplyMissingBenefitLeavesOtherFields(t *testing.T) {
	doc := loadFixture(t)
	doc.Find(".content-group").Last().Remove()

	rec := extract.MustDefault().Apply(doc)

	assert.Equal(t, "", rec.Benefit)
	assert.Equal(t, "<p>Build APIs in Go.</p>", rec.Description)
	assert.Equal(t, "<ul><li>SQL</li></ul>", rec.Requirement)
	assert.Equal(t, "Backend Engineer (Go)", rec.Title)
	assert.Equal(t, "15 - 25 triệu", rec.Salary)
	assert.Equal(t, "0901234567", rec.ContactPhone)
}

func TestApplyEmptyPage(t *testing.T) {
	rec := extract.MustDefault().Apply(loadDoc(t, "<html><body><p>gone</p></body></html>"))
	assert.Equal(t, domain.JobRecord{}, rec)
}

func TestContactPhoneFallbackChain(t *testing.T) {
	rs := extract.MustDefault()

	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "show-phone attribute",
			html: `<span class="show-phone" data-phone="0901"></span><span id="phone-employer" data-phone="0902">0903</span>`,
			want: "0901",
		},
		{
			name: "employer attribute",
			html: `<span class="show-phone">Hiện số</span><span id="phone-employer" data-phone="0902">0903</span>`,
			want: "0902",
		},
		{
			name: "employer text",
			html: `<span id="phone-employer" data-phone=""> 0903 </span>`,
			want: "0903",
		},
		{
			name: "nothing",
			html: `<p>no phone</p>`,
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := rs.Apply(loadDoc(t, "<html><body>"+tc.html+"</body></html>"))
			assert.Equal(t, tc.want, rec.ContactPhone)
		})
	}
}

func TestLabelMatchingIsCaseSensitiveContainment(t *testing.T) {
	html := `<html><body>
<div class="content-group"><div class="content-group__title">MÔ TẢ</div><div class="content-group__content">upper</div></div>
<div class="content-group"><div class="content-group__title">Chi tiết Mô tả công việc</div><div class="content-group__content">mixed</div></div>
</body></html>`

	rec := extract.MustDefault().Apply(loadDoc(t, html))
	assert.Equal(t, "mixed", rec.Description)
}

func TestFirstMatchingItemWins(t *testing.T) {
	html := `<html><body>
<div class="attr-item"><span class="name-attr">Kinh nghiệm</span></div>
<div class="attr-item"><span class="name-attr">Kinh nghiệm</span><span class="text-attr">5 năm</span></div>
</body></html>`

	rec := extract.MustDefault().Apply(loadDoc(t, html))
	assert.Equal(t, "", rec.Experience)
}

func TestRelativeLogoWithoutBaseIsKept(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<img class="company-logo" src="/logo.png">`))
	require.NoError(t, err)

	rec := extract.MustDefault().Apply(doc)
	assert.Equal(t, "/logo.png", rec.CompanyLogo)
}

func TestCustomTableIsData(t *testing.T) {
	tbl := extract.Table{
		Groups: map[extract.Kind]extract.Group{
			extract.KindAttributeItem: {Items: "li.row", Name: "b", Value: "i"},
		},
		Fields: map[string]extract.Rule{
			"title":      {Kind: extract.KindText, Selector: "h2.headline"},
			"experience": {Kind: extract.KindAttributeItem, Label: "Experience"},
		},
	}
	rs, err := extract.Compile(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"experience", "title"}, rs.Fields())

	rec := rs.Apply(loadDoc(t, `<h2 class="headline">Go Dev</h2><ul><li class="row"><b>Experience</b><i>3y</i></li></ul>`))
	assert.Equal(t, "Go Dev", rec.Title)
	assert.Equal(t, "3y", rec.Experience)
	assert.Equal(t, "", rec.Company)
}

func TestCompileRejectsBrokenTable(t *testing.T) {
	tbl := extract.Table{
		Fields: map[string]extract.Rule{
			"nickname":    {Kind: extract.KindText, Selector: "h1"},
			"title":       {Kind: extract.KindText, Selector: "h1[["},
			"salary":      {Kind: extract.KindLabeledValue, Label: "Mức lương"},
			"companyLogo": {Kind: extract.KindAttr, Selector: "img"},
			"company":     {Kind: "regex", Selector: "h2"},
		},
	}
	_, err := extract.Compile(tbl)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "fields.nickname")
	assert.Contains(t, msg, "fields.title")
	assert.Contains(t, msg, "fields.salary")
	assert.Contains(t, msg, "fields.companyLogo")
	assert.Contains(t, msg, "fields.company")
}

func TestDefaultTableCoversEveryField(t *testing.T) {
	tbl, err := extract.DefaultTable()
	require.NoError(t, err)
	for name := range domain.FieldSetters {
		assert.Contains(t, tbl.Fields, name)
	}
}
