package engine

import (
	"fmt"
	"strings"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/textmatch"
)

const commandMarker = "/"

// Command names.
const (
	CmdIAmTeacher = "iamteacher"
	CmdBind       = "bind"
	CmdSetName    = "setname"
	CmdSetDefault = "setdefault"
	CmdPrefix     = "prefix"
	CmdClearCard  = "clearcard"
	CmdSchedule   = "schedule"
	CmdTransport  = "transport"
	CmdHelp       = "help"
	CmdPing       = "ping"
)

type commandFunc func(t *turn, cmd parsedCommand) Result

// command registry; every entry except /iamteacher requires the teacher.
var commands = map[string]commandFunc{
	CmdBind:       cmdBind,
	CmdSetName:    cmdSetName,
	CmdSetDefault: cmdSetDefault,
	CmdPrefix:     cmdPrefix,
	CmdClearCard:  cmdClearCard,
	CmdSchedule:   cmdSchedule,
	CmdTransport:  cmdTransport,
	CmdHelp:       cmdHelp,
	CmdPing:       cmdPing,
}

type parsedCommand struct {
	name string
	args []string
	// rest is everything after the command word with inner spacing kept.
	rest string
}

// parseCommand splits "/cmd@bot arg1 arg2". The bot mention is dropped.
func parseCommand(text string) (parsedCommand, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, commandMarker) {
		return parsedCommand{}, false
	}
	head, rest, _ := strings.Cut(text, " ")
	if i := strings.IndexAny(head, "\n\t"); i >= 0 {
		rest = head[i:] + " " + rest
		head = head[:i]
	}
	name := strings.TrimPrefix(head, commandMarker)
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ToLower(name)
	if name == "" {
		return parsedCommand{}, false
	}
	rest = strings.TrimSpace(rest)
	return parsedCommand{name: name, args: strings.Fields(rest), rest: rest}, true
}

func (c parsedCommand) route() string {
	return "command:" + c.name
}

func (c parsedCommand) handled(code string) Result {
	return Result{Outcome: OutcomeHandled, Route: c.route(), ClassCode: code}
}

func handleCommand(t *turn, text string) Result {
	cmd, ok := parseCommand(text)
	if !ok {
		return ignored()
	}
	if cmd.name == CmdIAmTeacher {
		return cmdIAmTeacher(t, cmd)
	}
	fn, ok := commands[cmd.name]
	if !ok {
		return ignored()
	}
	if !t.st.IsTeacher(t.ev.SenderID) {
		t.reply(msgDenied)
		return cmd.handled("")
	}
	return fn(t, cmd)
}

func cmdIAmTeacher(t *turn, cmd parsedCommand) Result {
	if !t.ev.IsPrivate() {
		t.reply(msgPrivateOnly)
		return cmd.handled("")
	}
	switch {
	case t.st.IsTeacher(t.ev.SenderID):
		t.reply(msgTeacherAlready)
	case t.st.TeacherID != nil:
		t.reply(msgDenied)
	default:
		teacherID := t.ev.SenderID
		t.st.TeacherID = &teacherID
		t.mutated()
		t.reply(msgTeacherSet)
	}
	return cmd.handled("")
}

func roleTitle(role state.ChatBinding) string {
	if role == state.BindParents {
		return "родительский чат"
	}
	return "общий чат"
}

func cmdBind(t *turn, cmd parsedCommand) Result {
	if len(cmd.args) == 0 || len(cmd.args) > 2 {
		t.reply(usageBind)
		return cmd.handled("")
	}
	code, ok := textmatch.ParseClassCode(cmd.args[0])
	if !ok {
		t.reply(usageBind)
		return cmd.handled("")
	}
	role := state.BindGeneral
	if len(cmd.args) == 2 {
		switch strings.ToLower(cmd.args[1]) {
		case string(state.BindGeneral):
		case string(state.BindParents):
			role = state.BindParents
		default:
			t.reply(usageBind)
			return cmd.handled("")
		}
	}
	if owner, bound := t.st.ClassByChat(t.ev.ChatID); bound && owner != code {
		t.reply(fmt.Sprintf(msgBindConflict, owner))
		return cmd.handled(owner)
	}
	t.st.Class(code).Bind(role, t.ev.ChatID)
	t.mutated()
	t.reply(fmt.Sprintf(msgBound, code, roleTitle(role)))
	return cmd.handled(code)
}

func cmdSetName(t *turn, cmd parsedCommand) Result {
	name := strings.Join(strings.Fields(cmd.rest), " ")
	if name == "" {
		t.reply(usageSetName)
		return cmd.handled("")
	}
	t.st.TeacherDisplayName = name
	t.mutated()
	t.reply(fmt.Sprintf(msgNameSet, name))
	return cmd.handled("")
}

func cmdSetDefault(t *turn, cmd parsedCommand) Result {
	if len(cmd.args) != 1 {
		t.reply(usageDefault)
		return cmd.handled("")
	}
	code, ok := textmatch.ParseClassCode(cmd.args[0])
	if !ok {
		t.reply(usageDefault)
		return cmd.handled("")
	}
	t.st.Class(code)
	t.st.DefaultClassCode = code
	t.mutated()
	t.reply(fmt.Sprintf(msgDefaultSet, code))
	return cmd.handled(code)
}

func cmdPrefix(t *turn, cmd parsedCommand) Result {
	enabled := !t.st.ReplyPrefixEnabled
	if len(cmd.args) > 0 {
		switch strings.ToLower(cmd.args[0]) {
		case "on", "вкл":
			enabled = true
		case "off", "выкл":
			enabled = false
		default:
			t.reply(usagePrefix)
			return cmd.handled("")
		}
	}
	t.st.ReplyPrefixEnabled = enabled
	t.mutated()
	if enabled {
		t.reply(msgPrefixOn)
	} else {
		t.reply(msgPrefixOff)
	}
	return cmd.handled("")
}

// clearTargets is the complete accepted set; anything else is a usage error.
var clearTargets = map[string][]state.CardList{
	"balance": {state.CardBalance},
	"topup":   {state.CardTopup},
	"both":    {state.CardBalance, state.CardTopup},
	"all":     {state.CardBalance, state.CardTopup},
}

func clearTitle(lists []state.CardList) string {
	if len(lists) > 1 {
		return "баланс и пополнение карты"
	}
	if lists[0] == state.CardTopup {
		return CategoryCardTopup.Title()
	}
	return CategoryCardBalance.Title()
}

func cmdClearCard(t *turn, cmd parsedCommand) Result {
	if len(cmd.args) != 2 {
		t.reply(usageClearCard)
		return cmd.handled("")
	}
	code, ok := textmatch.ParseClassCode(cmd.args[0])
	if !ok {
		t.reply(usageClearCard)
		return cmd.handled("")
	}
	lists, ok := clearTargets[strings.ToLower(cmd.args[1])]
	if !ok {
		t.reply(usageClearCard)
		return cmd.handled("")
	}
	t.st.Class(code).Clear(lists...)
	t.mutated()
	t.reply(fmt.Sprintf(msgCleared, code, clearTitle(lists)))
	return cmd.handled(code)
}

// commandClass resolves the class for show commands: an explicit argument
// wins, then the usual resolver.
func commandClass(t *turn, cmd parsedCommand) (string, bool) {
	if len(cmd.args) > 0 {
		return textmatch.ParseClassCode(cmd.args[0])
	}
	return ResolveClass(t.st, t.ev, "")
}

func cmdSchedule(t *turn, cmd parsedCommand) Result {
	code, ok := commandClass(t, cmd)
	if !ok {
		t.reply(fmt.Sprintf(msgNoClass, "/schedule"))
		return cmd.handled("")
	}
	var slot *state.ArtifactSlot
	if rec, exists := t.st.Classes[code]; exists && rec != nil {
		slot = rec.Slot(state.SlotSchedule)
	}
	if slot == nil {
		t.reply(fmt.Sprintf(msgNotUploaded, "Расписание", code))
		return cmd.handled(code)
	}
	t.replyFile(slot.Kind, slot.FileID, Compose(BuildPrefix(t.st, t.ev), scheduleCaption(code, slot)))
	return cmd.handled(code)
}

func cmdTransport(t *turn, cmd parsedCommand) Result {
	code, ok := commandClass(t, cmd)
	if !ok {
		t.reply(fmt.Sprintf(msgNoClass, "/transport"))
		return cmd.handled("")
	}
	rec, exists := t.st.Classes[code]
	if !exists || rec == nil {
		t.reply(fmt.Sprintf(msgNotUploaded, "Расписание транспорта", code))
		return cmd.handled(code)
	}
	prefix := BuildPrefix(t.st, t.ev)
	sent := false
	if slot := rec.Slot(state.SlotShuttle); slot != nil {
		t.replyFile(slot.Kind, slot.FileID, Compose(prefix, fmt.Sprintf(msgShuttleNote, code)))
		sent = true
	}
	if slot := rec.Slot(state.SlotBus); slot != nil {
		t.replyFile(slot.Kind, slot.FileID, Compose(prefix, fmt.Sprintf(msgBusNote, code)))
		sent = true
	}
	if !sent {
		t.reply(fmt.Sprintf(msgNotUploaded, "Расписание транспорта", code))
	}
	return cmd.handled(code)
}

func cmdHelp(t *turn, cmd parsedCommand) Result {
	t.reply(helpText)
	return cmd.handled("")
}

func cmdPing(t *turn, cmd parsedCommand) Result {
	t.reply(fmt.Sprintf(msgPong, t.st.Version))
	return cmd.handled("")
}
