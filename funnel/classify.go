package funnel

import (
	"strings"

	"github.com/BerniceZTT/course_funnel/models"
)

// Category 一个分类及其判定条件，按列表顺序先匹配者优先
type Category struct {
	Name  string
	Match func(models.Student) bool
}

// SourceCategories 来源分类（优先顺序固定）
var SourceCategories = []Category{
	sourceCategory("Yahoo搜尋", "Yahoo"),
	sourceCategory("Google搜尋", "Google"),
	sourceCategory("伊美官網", "官網"),
	sourceCategory("Facebook", "FB"),
	sourceCategory("伊美部落格", "部落格", "Blog"),
	sourceCategory("Instagram", "IG"),
	sourceCategory("Line@"),
	sourceCategory("PTT"),
	sourceCategory("其他網站", "其他"),
}

// MethodCategories 洽询方式分类
var MethodCategories = []Category{
	methodCategory("電話"),
	methodCategory("現場"),
	methodCategory("Line"),
	methodCategory("Line@"),
	methodCategory("FB"),
	methodCategory("IG"),
	methodCategory("Beclass"),
	methodCategory("Survey"),
	methodCategory("Meta"),
	methodCategory("其他"),
}

// Courses 主洽课程
var Courses = []string{"美丙", "美乙", "髮丙", "造型", "美甲", "紋繡", "SPA", "除毛", "美睫", "刺青", "美醫", "個彩"}

func sourceCategory(name string, aliases ...string) Category {
	labels := append([]string{name}, aliases...)
	return Category{
		Name: name,
		Match: func(s models.Student) bool {
			return IsTruthy(s.SourceFlags[name]) || matchesLabel(s.Source, labels)
		},
	}
}

func methodCategory(name string, aliases ...string) Category {
	labels := append([]string{name}, aliases...)
	return Category{
		Name: name,
		Match: func(s models.Student) bool {
			return IsTruthy(s.MethodFlags[name]) || matchesLabel(s.Method, labels)
		},
	}
}

func matchesLabel(value string, labels []string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, l := range labels {
		if strings.EqualFold(value, l) {
			return true
		}
	}
	return false
}

// IsTruthy 勾选栏位是否为真：非空且不是 FALSE/0
func IsTruthy(cell string) bool {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return false
	}
	return !strings.EqualFold(cell, "FALSE") && cell != "0"
}

// Classify 返回第一个匹配的分类名称，没有匹配时为空字串
func Classify(s models.Student, categories []Category) string {
	for _, c := range categories {
		if c.Match(s) {
			return c.Name
		}
	}
	return ""
}

func isCourse(name string) bool {
	for _, c := range Courses {
		if c == name {
			return true
		}
	}
	return false
}
