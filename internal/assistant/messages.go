package assistant

// PersonaPrompt is prepended to every open-ended message sent to the
// language model.
const PersonaPrompt = `You are a helpful calendar booking assistant. Your job is to help users:
1. Book meetings and appointments
2. Check availability
3. Reschedule meetings
4. Cancel meetings

Always respond in a friendly, professional manner. When booking meetings, you need:
- Date and time
- Duration (default to 60 minutes if not specified)
- Meeting title/purpose
- Attendees (if any)

Extract information naturally from user messages. Common patterns:
- "tomorrow at 2 PM"
- "next Friday from 10 to 11"
- "schedule a call with John"
- "book a meeting for next week"`

const generalPromptSuffix = "\n\nRespond helpfully about calendar and meeting management."

const bookingDescription = "Booked via Calendar Assistant"

const (
	msgAskDateTime = "I'd be happy to book that meeting! Could you please specify the date and time? For example: 'tomorrow at 2 PM' or 'Friday at 10:30 AM'"

	msgBookingFailed = "❌ I couldn't book the meeting. Reason: %s"

	msgBookingUnexpected = "❌ An unexpected error occurred while booking. Please try again later."

	msgAvailabilityHeader = "📅 **Your availability for the next 7 days:**\n\n"

	msgNoAvailability = "📅 I couldn't find any open slots in the next 7 days."

	msgAvailabilityTrouble = "I'm having trouble checking your calendar right now. Please try again in a moment."

	msgListMeetings = "📅 **Your upcoming meetings:**\n\nI'm working on fetching your calendar events. This feature will show your scheduled meetings."

	msgCancelMeeting = "To cancel a meeting, please specify which meeting you'd like to cancel. You can say something like 'cancel my 2 PM meeting tomorrow' or 'cancel the client meeting'."

	msgGeneralEmpty = "I can help you book meetings, check availability, or manage your calendar. What would you like to do?"

	msgGeneralUnavailable = "I can help you book meetings, check your availability, list your schedule, or cancel meetings. What would you like to do?"

	msgTurnError = "I apologize, but I encountered an error processing your request. Please try again."
)
