// services/notification_content.go
package services

import (
	"encoding/json"
	"fmt"

	"rank-progression-system/metrics"
	"rank-progression-system/models"
	"rank-progression-system/progression"

	"gorm.io/datatypes"
)

const (
	titleRankAssignment   = "Вам присвоен ранг"
	titleRankPromotion    = "Повышение ранга!"
	titleMissionCompleted = "Миссия выполнена"
	titleArtifactAcquired = "Новый артефакт"
	titleShopPurchase     = "Покупка в магазине"
	titleCardAcquired     = "Новая карта в коллекции"
)

const genericRankNarrative = "Ваш путь продолжается. Подробности о новом ранге появятся позже."

// rankNarratives is keyed by the level of the rank being assigned.
var rankNarratives = map[int]string{
	0: "Добро пожаловать на борт, Искатель!\n\n" +
		"Каждый адмирал когда-то стоял там, где сейчас стоите вы: у шлюза, с картой, на которой ещё нет ни одного маршрута. " +
		"Осмотритесь, познакомьтесь с экипажем и выберите свою первую миссию.\n\n" +
		"Впереди десять рангов и четыре ветви развития. Первый шаг самый важный.",
	1: "Поздравляем, Кадет!\n\n" +
		"Вы прошли инструктаж и освоили основы навигации. Теперь штурманская рубка открыта для вас, " +
		"а наставники готовы доверить вам первые самостоятельные задачи.\n\n" +
		"Продолжайте выполнять миссии и развивать компетенции, чтобы получить допуск к управлению кораблём.",
	2: "Вы стали Пилотом!\n\n" +
		"Штурвал теперь в ваших руках. Вы уверенно ведёте корабль по знакомым маршрутам и знаете, " +
		"к кому обратиться, если в пути что-то пойдёт не так.\n\n" +
		"Дальше путь разветвляется: техника, исследования или лидерство. Выбирайте миссии, которые вам ближе.",
	3: "Новый ранг: Инженер-навигатор.\n\n" +
		"Вы больше не просто следуете курсу, вы его прокладываете. Системы корабля отвечают вам, " +
		"а экипаж знает, что неисправность в надёжных руках.\n\n" +
		"Аналитико-техническая ветвь открыта. Следующая ступень потребует умения видеть закономерности в данных.",
	4: "Вы Аналитик траекторий!\n\n" +
		"Потоки данных складываются для вас в понятную картину. Вы предсказываете маршруты до того, " +
		"как их увидят радары, и ваши расчёты берут за основу при планировании экспедиций.\n\n" +
		"Пора выйти за пределы знакомых секторов и заняться настоящими исследованиями.",
	5: "Приветствуем, Исследователь!\n\n" +
		"Вы отправляетесь туда, где карты заканчиваются. Неизвестные сектора, новые команды, " +
		"незнакомые правила: всё это теперь ваша территория.\n\n" +
		"Собирайте знания бережно. Скоро они понадобятся тем, кто придёт после вас.",
	6: "Ранг Хронист экспедиций присвоен.\n\n" +
		"Опыт экипажа не должен теряться. Вы записываете истории экспедиций, превращаете ошибки в уроки " +
		"и помогаете новичкам пройти путь быстрее, чем прошли его вы.\n\n" +
		"Следующая ветвь про людей: связь, команду и ответственность за других.",
	7: "Вы стали Связным!\n\n" +
		"Между станциями, экипажами и командованием теперь есть вы. Вы умеете договариваться, " +
		"слышать разные стороны и передавать главное без искажений.\n\n" +
		"Флот замечает тех, кто соединяет людей. Впереди звено, которое будет ждать ваших решений.",
	8: "Капитан звена, звено ваше!\n\n" +
		"Теперь вы отвечаете не только за свой курс, но и за курс каждого пилота в звене. " +
		"Ваши решения определяют, вернётся ли команда с победой.\n\n" +
		"Ведите своим примером. Командование уже присматривается к вам.",
	9: "Командор, флотилия ждёт приказов.\n\n" +
		"Вы координируете несколько звеньев и видите картину целиком. Стратегия, ресурсы, люди: " +
		"всё сходится на вашем мостике.\n\n" +
		"Остался последний шаг. Его делают единицы.",
	10: "Адмирал галактики!\n\n" +
		"Вы прошли весь путь от Искателя до вершины. Ваше имя теперь звучит в каждом инструктаже, " +
		"а новички мечтают однажды стоять там, где стоите вы.\n\n" +
		"Выше рангов нет. Но у флота всегда есть новые горизонты, и вести к ним будете вы.",
}

// rankNarrative falls back to a generic text for levels outside the table.
func rankNarrative(level int) string {
	if text, ok := rankNarratives[level]; ok {
		return text
	}
	return genericRankNarrative
}

func rankAssignmentContent(r progression.Rank) string {
	return fmt.Sprintf("Вам присвоен ранг «%s».\n\n%s", r.Name, rankNarrative(r.Level))
}

func rankPromotionContent(from, to progression.Rank) string {
	return fmt.Sprintf("Вы поднялись с ранга «%s» до ранга «%s».\n\n%s", from.Name, to.Name, rankNarrative(to.Level))
}

func missionCompletedContent(m *models.Mission) string {
	content := fmt.Sprintf("Миссия «%s» успешно завершена.", m.Name)
	if m.ExperienceReward > 0 || m.ManaReward > 0 {
		content += fmt.Sprintf("\n\nНаграда: %d опыта и %d маны.", m.ExperienceReward, m.ManaReward)
	}
	content += "\n\nОтличная работа! Проверьте, не открылся ли путь к следующему рангу."
	return content
}

func artifactAcquiredContent(a *models.Artifact) string {
	content := fmt.Sprintf("В вашу коллекцию добавлен артефакт «%s» (%s).", a.Name, a.Rarity)
	if a.Description != "" {
		content += "\n\n" + a.Description
	}
	return content
}

func shopPurchaseContent(item *models.ShopItem, manaLeft int64) string {
	return fmt.Sprintf("Вы приобрели «%s» за %d маны.\n\nОстаток на счёте: %d маны.", item.Name, item.Price, manaLeft)
}

func cardAcquiredContent(card *models.Card, reason string) string {
	content := fmt.Sprintf("Вы получили карту «%s» (%s).", card.Name, card.Rarity)
	if card.Series != "" {
		content += fmt.Sprintf(" Серия: %s.", card.Series)
	}
	if reason != "" {
		content += "\n\nЗа что: " + reason
	}
	return content
}

// Metadata payloads, one per event kind.

type rankAssignmentMetadata struct {
	RankLevel int    `json:"rankLevel"`
	RankName  string `json:"rankName"`
	Branch    string `json:"branch"`
}

type rankPromotionMetadata struct {
	OldRankLevel int    `json:"oldRankLevel"`
	OldRankName  string `json:"oldRankName"`
	NewRankLevel int    `json:"newRankLevel"`
	NewRankName  string `json:"newRankName"`
}

type missionCompletedMetadata struct {
	MissionID        string `json:"missionId"`
	MissionName      string `json:"missionName"`
	ExperienceGained int64  `json:"experienceGained"`
	ManaGained       int64  `json:"manaGained"`
}

type artifactAcquiredMetadata struct {
	ArtifactID   string `json:"artifactId"`
	ArtifactName string `json:"artifactName"`
	Rarity       string `json:"rarity"`
	Source       string `json:"source"`
}

type shopPurchaseMetadata struct {
	PurchaseID string `json:"purchaseId"`
	ItemID     string `json:"itemId"`
	ItemName   string `json:"itemName"`
	Price      int64  `json:"price"`
	ManaLeft   int64  `json:"manaLeft"`
}

type cardAcquiredMetadata struct {
	CardID   string `json:"cardId"`
	CardName string `json:"cardName"`
	Rarity   string `json:"rarity"`
	Series   string `json:"series,omitempty"`
}

// metadataResult is the outcome of encoding a metadata payload.
type metadataResult struct {
	raw []byte
	err error
}

func encodeMetadata(payload any) metadataResult {
	raw, err := json.Marshal(payload)
	return metadataResult{raw: raw, err: err}
}

// OrElse returns the encoded payload, or the fallback's output when encoding failed.
func (r metadataResult) OrElse(fallback func(err error) string) datatypes.JSON {
	if r.err != nil {
		metrics.RecordMetadataFallback()
		return datatypes.JSON(fallback(r.err))
	}
	return datatypes.JSON(r.raw)
}

func minimalMetadata(kind models.NotificationType) func(error) string {
	return func(error) string {
		return fmt.Sprintf(`{"type":%q}`, kind)
	}
}
