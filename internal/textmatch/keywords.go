package textmatch

// Keyword sets are lowercase stems matched as substrings of normalized text.
// Several sets overlap on purpose; the classifiers resolve overlaps by the
// order in which they consult them.
var (
	BellKeywords = []string{
		"звонк",
		"перемен",
	}

	// BellTimingKeywords extend BellKeywords with the ways parents ask about
	// lesson timing without naming bells or breaks.
	BellTimingKeywords = []string{
		"звонк",
		"перемен",
		"во сколько начина",
		"во сколько заканчива",
		"когда начина",
		"когда заканчива",
		"когда начнут",
		"когда закончат",
		"сколько длится урок",
	}

	ShuttleKeywords = []string{
		"подвоз",
		"деревн",
		"посёлк",
		"поселк",
		"из села",
		"в село",
		"сельск",
	}

	BusKeywords = []string{
		"автобус",
		"маршрут",
	}

	ScheduleKeywords = []string{
		"расписан",
		"какие уроки",
		"какие завтра уроки",
		"уроки завтра",
		"уроки на завтра",
		"уроки на неделю",
		"что завтра по урокам",
	}

	BalanceKeywords = []string{
		"баланс",
		"остаток",
		"сколько денег",
		"сколько осталось",
	}

	CardKeywords = []string{
		"карт",
		"питан",
		"столов",
	}

	BalancePhrases = []string{
		"баланс карты",
		"проверить баланс",
		"узнать баланс",
	}

	TopupKeywords = []string{
		"пополн",
		"положить деньги",
		"закинуть деньги",
		"внести деньги",
	}

	TopupPhrases = []string{
		"пополнить карту",
		"как пополнить",
		"пополнение карты",
	}

	IllnessKeywords = []string{
		"заболел",
		"болеет",
		"болен",
		"больна",
		"температур",
		"простуд",
		"больнич",
		"у врача",
	}

	AbsenceKeywords = []string{
		"не придет",
		"не придёт",
		"не будет",
		"отсутств",
		"пропустит",
		"пропустим",
		"опоздает",
	}

	GreetingKeywords = []string{
		"здравствуй",
		"привет",
		"добрый день",
		"доброе утро",
		"добрый вечер",
	}
)

// TransportKeywords is the union consulted by the schedule exclusion check.
func TransportKeywords() []string {
	out := make([]string, 0, len(ShuttleKeywords)+len(BusKeywords))
	out = append(out, ShuttleKeywords...)
	return append(out, BusKeywords...)
}
