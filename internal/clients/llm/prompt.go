package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = "너는 이자카야의 친절하고 센스 있는 점장이다. " +
	"주어진 상황과 메뉴에 대해 손님에게 권하는 말을 한 마디로 작성해라. " +
	"설명은 구체적이고 감각적이어야 하며(3문장 이상), 없는 재료를 지어내면 안 된다."

// buildPrompt assembles the chat prompt for one generation request. Three
// phrasings exist: taste-twin (collaborative provenance), situational
// (context conditions), and generic.
func buildPrompt(req Request) (system string, user string) {
	menuNames := make([]string, 0, len(req.Menus))
	for _, m := range req.Menus {
		if m.Name != "" {
			menuNames = append(menuNames, m.Name)
		}
	}
	target := "추천 메뉴"
	if len(menuNames) > 0 {
		target = menuNames[0]
	}

	var contextDesc, guide string
	switch {
	case req.Conditions["logic"] == "User Similarity":
		history := req.Conditions["history"]
		if history == "" {
			history = "이전 메뉴"
		}
		contextDesc = fmt.Sprintf("사용자는 과거에 '%s'를 주문했음. 유사한 입맛의 그룹은 '%s'를 선호함.", history, target)
		guide = fmt.Sprintf(
			"손님, 이전에 %s를 맛있게 드셨군요! "+
				"회원님과 입맛이 꼭 닮은 미식가분들은 주로 %s를 선택하셨어요. "+
				"이 메뉴는 [맛/식감 특징]이 있어서 회원님 취향을 저격할 거예요!",
			history, target)

	case len(req.Conditions) > 0:
		summary := situationSummary(req.Conditions)
		contextDesc = fmt.Sprintf("현재 상황: %s. 추천 메뉴: %s.", summary, target)
		guide = fmt.Sprintf(
			"손님, 현재 %s인 상황에 맞춰, "+
				"다른 손님들이 가장 많이 찾으신 %s를 강력 추천드려요! "+
				"이 메뉴는 [맛/식감 특징]이 있어서 지금 상황에 딱입니다.",
			summary, target)

	default:
		contextDesc = fmt.Sprintf("일반 추천 상황. 메뉴: %s", target)
		guide = fmt.Sprintf("손님, 요즘 제일 잘 나가는 %s를 추천드려요!", target)
	}

	user = fmt.Sprintf(`[상황 정보]
%s

[답변 가이드라인]
다음 문장 흐름을 자연스럽게 이어서 완성해라:
"%s"

[주의사항]
1. 가이드라인의 문장으로 시작하되, 뒤에 메뉴의 맛과 식감을 아주 풍성하게 묘사해라.
2. '답안:', '점장:', '주의:' 같은 헤더를 절대 붙이지 마라.
3. 오직 점장의 대사만 출력해라.`, contextDesc, guide)

	return systemPrompt, user
}

// situationSummary condenses the condition map into one Korean clause list.
// Rain wins over season when it is actually raining; an absent or minimal
// budget reads as value-for-money.
func situationSummary(cond map[string]string) string {
	var parts []string
	if v := cond["people"]; v != "" {
		parts = append(parts, "인원 "+v)
	}
	rain := cond["rain"]
	if rain != "" && rain != "없음" && rain != "0mm" {
		parts = append(parts, "날씨 "+rain+" 비")
	} else if v := cond["season"]; v != "" {
		parts = append(parts, "계절 "+v)
	}
	if v := cond["time"]; v != "" {
		parts = append(parts, "시간 "+v)
	}

	price := cond["price"]
	if price == "" || price == "0" || price == "0~10000원" {
		parts = append(parts, "가성비 예산")
	} else {
		parts = append(parts, "예산 "+price)
	}

	if v := cond["category"]; v != "" {
		parts = append(parts, "선호 카테고리 "+v)
	}
	return strings.Join(parts, ", ")
}
