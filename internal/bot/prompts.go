package bot

import "fmt"

// All user-facing copy and keyboard captions live here so the conversation
// flow itself stays free of wording.

const (
	continueCaption = "Press to continue"

	goalPrompt = "<b>What is your health goal? Choose one to get started:</b>"

	analysisLoadingText = "Processing your image, please wait ... ✨"

	cancelText = "Your health journey is important to us. If you’re ready to continue, just type /start to begin again anytime! 💪😊"

	savePromptText  = "Would you like to save this meal to your record?"
	saveDoneText    = "Meal saved to your record! ✅"
	saveSkippedText = "Meal was not saved to your record. ❌"
	saveNothingText = "There is nothing to save right now."
	saveFailedText  = "Couldn't save this meal right now. Please try again."
	goalFailedText  = "There was an issue setting your goal. Please try again."
	turnFailedText  = "Sorry, something went wrong. Please try again."
	notStartedText  = "Type /start to begin your health journey!"
	unknownCmdText  = "Unknown command. Use /start to begin or /cancel to stop."
)

// Callback payload prefixes.
const (
	goalCallbackPrefix = "goal_"
	saveYesCallback    = "save_yes"
	saveNoCallback     = "save_no"
)

func welcomeText(username string) string {
	return fmt.Sprintf("🎉 Hello, ✨<b><u> %s </u></b>✨  Welcome to 🌟 <b>FITON</b> 🌟", username)
}

func goalConfirmedText(goal string) string {
	return fmt.Sprintf(`Your goal is set to <b>%s</b>! 🎯

<b>FITON</b> will help guide you step-by-step towards reaching your goal, using your body data, eating habits, and the target you’ve chosen.

Ready to get started? 📸 Upload a photo, and we’ll take care of the analysis for you!`, goal)
}
