package engine

// Fixed reply templates. Wording matters: partners quote the 10 minute
// promise in their own messaging, so keep these in sync with them.
const (
	replyGreeting = "Hello! I'm your food assistance helper. I'm here to help you get free food within 10 minutes. How can I assist you today?"

	replyAskName = "Hello! I'm here to help you get food assistance. To proceed, I need a few details. Could you please tell me your name?"

	replyAskAge = "Thank you, %s! Could you please tell me your age?"

	replyAgeHint = "I need to know your age. Could you please tell me how old you are? (e.g., 25)"

	replyAskLocation = "Thank you! Could you please tell me your location or area where you need the food delivered?"

	replyAskFood = "Great! Could you please tell me what kind of food you need or any specific requirements?"

	replyConfirmation = "Thank you %s! Your food assistance request has been confirmed. We're coordinating with our partners to ensure you receive food within 10 minutes. You will receive a confirmation shortly."

	replyClosing = "Your request has already been processed. If you need another food assistance request, please start a new conversation."

	replyApology = "I'm sorry, something went wrong on our side. Please try again."
)
