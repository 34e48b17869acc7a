package dialogue

import "strings"

// Trigger 一次輸入對應的事件
type Trigger string

const (
	TriggerStart          Trigger = "start"
	TriggerAdd            Trigger = "add"
	TriggerDone           Trigger = "done"
	TriggerStatus         Trigger = "status"
	TriggerCancel         Trigger = "cancel"
	TriggerText           Trigger = "text"
	TriggerUnknownCommand Trigger = "unknown_command"
)

var commands = map[string]Trigger{
	"start":  TriggerStart,
	"add":    TriggerAdd,
	"done":   TriggerDone,
	"status": TriggerStatus,
	"cancel": TriggerCancel,
}

// ParseTrigger 解析輸入
//
// 以 "/" 開頭的第一個詞視為指令，"/add@SomeBot" 的 bot 名稱會被去掉，指令不分大小寫；
// 其他內容一律視為自由文字。
func ParseTrigger(text string) Trigger {
	if !strings.HasPrefix(text, "/") {
		return TriggerText
	}

	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return TriggerUnknownCommand
	}
	name, _, _ := strings.Cut(fields[0], "@")
	if trigger, ok := commands[strings.ToLower(name)]; ok {
		return trigger
	}
	return TriggerUnknownCommand
}
