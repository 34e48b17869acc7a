package dialogue

import "strings"

const (
	greetingText = "Hi! My name is buttercream frosting Bot. " +
		"Select the ingredients you have in your fridge and " +
		"I will help you decide on what delicious meals you can prepare with them"
	selectCategoryText   = "Select a category of ingredients"
	chooseIngredientText = "Choose the ingredient you want to add."
	farewellText         = "Bye! I hope we can talk again some day."
	endedHintText        = "Send /start to begin a new search."
	noRecipesText        = "No recipes matched your ingredients yet. Send /add to add more ingredients."
	failureText          = "Sorry, something went wrong on my side. Please try the same command again."
)

// Reply 一次回合的輸出
type Reply struct {
	Text           string     `json:"text"`
	Keyboard       [][]string `json:"keyboard,omitempty"`
	RemoveKeyboard bool       `json:"remove_keyboard,omitempty"`
	HTML           bool       `json:"html,omitempty"`
}

// FailureReply 外部服務失敗時給使用者看的訊息，不含內部錯誤細節
func FailureReply() Reply {
	return Reply{Text: failureText}
}

// statusText 目前食材清單與下一步指令
func statusText(ingredients []string) string {
	return "Current Ingredients:\n" + strings.Join(ingredients, "\n") + "\n\n" +
		"Send /add to add more ingredients.\n" +
		"Send /done to find your recipes.\n" +
		"Send /cancel to stop talking to me.\n"
}

func addedText(ingredient string) string {
	return "The ingredient " + ingredient + " has been added."
}
