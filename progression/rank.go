// progression/rank.go
package progression

import (
	"fmt"
	"strings"
)

// Branch groups ranks thematically. It does not affect promotion.
type Branch string

const (
	BranchGeneral                 Branch = "GENERAL"
	BranchAnalyticalTechnical     Branch = "ANALYTICAL_TECHNICAL"
	BranchHumanitarianResearch    Branch = "HUMANITARIAN_RESEARCH"
	BranchCommunicationLeadership Branch = "COMMUNICATION_LEADERSHIP"
	BranchFinal                   Branch = "FINAL"
)

var Branches = []Branch{
	BranchGeneral,
	BranchAnalyticalTechnical,
	BranchHumanitarianResearch,
	BranchCommunicationLeadership,
	BranchFinal,
}

// ParseBranch accepts the enum name in any case, with '-' or '_' separators.
func ParseBranch(s string) (Branch, bool) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
	for _, b := range Branches {
		if string(b) == norm {
			return b, true
		}
	}
	return "", false
}

type Rank struct {
	Level       int    `json:"level"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Branch      Branch `json:"branch"`
}

const (
	StartLevel = 0
	MaxLevel   = 10
)

// catalog is indexed by level.
var catalog = [...]Rank{
	{0, "SEEKER", "Искатель", "Новичок, только ступивший на борт. Все пути открыты.", BranchGeneral},
	{1, "CADET", "Кадет", "Освоил базовую навигацию и прошёл первый инструктаж.", BranchGeneral},
	{2, "PILOT", "Пилот", "Самостоятельно ведёт корабль по знакомым маршрутам.", BranchGeneral},
	{3, "ENGINEER_NAVIGATOR", "Инженер-навигатор", "Прокладывает курсы и чинит системы в полёте.", BranchAnalyticalTechnical},
	{4, "TRAJECTORY_ANALYST", "Аналитик траекторий", "Видит закономерности в данных и предсказывает маршруты.", BranchAnalyticalTechnical},
	{5, "EXPLORER", "Исследователь", "Изучает неизвестные сектора и людей, которые в них живут.", BranchHumanitarianResearch},
	{6, "CHRONICLER", "Хронист экспедиций", "Сохраняет знания экипажа и передаёт их новичкам.", BranchHumanitarianResearch},
	{7, "LIAISON", "Связной", "Налаживает связь между экипажами и станциями.", BranchCommunicationLeadership},
	{8, "SQUAD_CAPTAIN", "Капитан звена", "Ведёт за собой звено и отвечает за его успех.", BranchCommunicationLeadership},
	{9, "COMMODORE", "Командор", "Координирует флотилии и принимает стратегические решения.", BranchCommunicationLeadership},
	{10, "ADMIRAL", "Адмирал галактики", "Вершина пути. Легенда, на которую равняется весь флот.", BranchFinal},
}

// Ranks returns the catalog ordered by level. The slice is a copy.
func Ranks() []Rank {
	out := make([]Rank, len(catalog))
	copy(out, catalog[:])
	return out
}

func IsValidLevel(level int) bool {
	return level >= StartLevel && level <= MaxLevel
}

// RankByLevel is the strict lookup.
func RankByLevel(level int) (Rank, error) {
	if !IsValidLevel(level) {
		return Rank{}, fmt.Errorf("unknown rank level %d", level)
	}
	return catalog[level], nil
}

// RankByLevelOrDefault falls back to the starting rank for unknown levels.
func RankByLevelOrDefault(level int) Rank {
	if r, err := RankByLevel(level); err == nil {
		return r
	}
	return catalog[StartLevel]
}

// RankByName matches either the code or the display name, case-insensitively.
func RankByName(name string) (Rank, bool) {
	name = strings.TrimSpace(name)
	for _, r := range catalog {
		if strings.EqualFold(r.Code, name) || strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Rank{}, false
}

func RanksByBranch(b Branch) []Rank {
	var out []Rank
	for _, r := range catalog {
		if r.Branch == b {
			out = append(out, r)
		}
	}
	return out
}

// Next returns the rank one level above, or false at the terminal rank.
func (r Rank) Next() (Rank, bool) {
	if r.Level >= MaxLevel {
		return Rank{}, false
	}
	return catalog[r.Level+1], true
}

func (r Rank) IsTerminal() bool {
	return r.Level == MaxLevel
}
