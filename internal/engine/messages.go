package engine

// Reply texts. The bot speaks Russian only.
const (
	msgSaved          = "Сохранено (%s — %s)."
	msgSavedList      = "Сохранено (%s — %s, всего: %d)."
	msgScheduleNote   = "Расписание уроков %s."
	msgScheduleDated  = "Расписание уроков %s (обновлено %s)."
	msgShuttleNote    = "Расписание подвоза %s."
	msgBusNote        = "Расписание автобуса %s."
	msgBellsNote      = "Расписание звонков %s."
	msgBalanceNote    = "Как проверить баланс карты питания (%s):"
	msgTopupNote      = "Как пополнить карту питания (%s):"
	msgIllnessReply   = "Выздоравливайте! Информация передана классному руководителю."
	msgAbsenceReply   = "Спасибо, что предупредили! Информация передана классному руководителю."
	msgGreetingReply  = "Здравствуйте! Чем могу помочь?"
	msgTeacherNotice  = "Сообщение от родителя (класс %s)\nОт: %s\n\n%s"
	msgDenied         = "Эта команда доступна только классному руководителю."
	msgPrivateOnly    = "Эту команду можно выполнить только в личном чате с ботом."
	msgTeacherSet     = "Готово: вы назначены классным руководителем."
	msgTeacherAlready = "Вы уже назначены классным руководителем."
	msgBound          = "Чат привязан к классу %s (%s)."
	msgBindConflict   = "Этот чат уже привязан к классу %s."
	msgNameSet        = "Имя в ответах: %s."
	msgDefaultSet     = "Класс по умолчанию: %s."
	msgPrefixOn       = "Подпись в ответах включена."
	msgPrefixOff      = "Подпись в ответах выключена."
	msgCleared        = "Очищено (%s — %s)."
	msgNoClass        = "Не удалось определить класс. Укажите его явно, например: %s 1Б"
	msgNotUploaded    = "%s для %s ещё не загружено."
	msgPong           = "pong (версия состояния %d)"

	usageBind      = "Использование: /bind <класс> [general|parents], например /bind 1Б"
	usageSetName   = "Использование: /setname <имя>"
	usageDefault   = "Использование: /setdefault <класс>, например /setdefault 1Б"
	usagePrefix    = "Использование: /prefix [on|off]"
	usageClearCard = "Использование: /clearcard <класс> <balance|topup|both|all>"
)

const helpText = `Команды классного руководителя:
/iamteacher — назначить себя классным руководителем (в личном чате)
/bind <класс> [general|parents] — привязать этот чат к классу
/setname <имя> — имя для подписи ответов
/setdefault <класс> — класс по умолчанию для личных чатов
/prefix [on|off] — подпись в ответах
/clearcard <класс> <balance|topup|both|all> — очистить материалы по карте питания
/schedule [класс] — показать расписание
/transport [класс] — показать расписание подвоза и автобуса
/ping — проверка связи

Загрузка материалов: отправьте файл с подписью "#1Б расписание", "#1Б звонки", "#1Б подвоз", "#1Б автобус", "#1Б баланс карты" или "#1Б пополнение карты".`
