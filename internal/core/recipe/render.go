package recipe

import (
	"fmt"
	"html"
	"strings"

	"recipe-finder/internal/pkg/common"
)

// Render 輸出 HTML 格式的推薦清單，每道食譜之間以空行分隔
//
// 已有食材以 <b> 標示，缺少食材以 <i> 標示。沒有結果時回傳空字串。
func Render(results []Result) string {
	var sb strings.Builder
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("%d\n", r.Rank))
		sb.WriteString("Name: " + html.EscapeString(common.CapitalizeSentence(r.Recipe.Name)) + "\n")
		sb.WriteString(fmt.Sprintf("Similarity Point: %.1f%%\n", r.Score*100))
		sb.WriteString("Ingredients: " + renderIngredients(r.Have, r.Missing) + "\n")
		sb.WriteString("Website: " + html.EscapeString(r.Recipe.Link) + "\n")
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderIngredients(have, missing []string) string {
	parts := make([]string, 0, 2)
	if len(have) > 0 {
		parts = append(parts, "<b>"+joinEscaped(have)+"</b>")
	}
	if len(missing) > 0 {
		parts = append(parts, "<i>"+joinEscaped(missing)+"</i>")
	}
	return strings.Join(parts, ", ")
}

func joinEscaped(names []string) string {
	escaped := make([]string, len(names))
	for i, name := range names {
		escaped[i] = html.EscapeString(name)
	}
	return strings.Join(escaped, ", ")
}
