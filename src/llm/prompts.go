package llm

import "chat_agent/src/model"

// TemplateID selects one of the five fixed prompt templates.
type TemplateID string

const (
	TemplateContextualRewrite TemplateID = "contextual_rewrite"
	TemplateIntentClassifier  TemplateID = "intent_classification"
	TemplateEntityExtraction  TemplateID = "entity_extraction"
	TemplateFollowUpQuestions TemplateID = "follow_up_question"
	TemplateWebSearchQuery    TemplateID = "web_search_query"
)

// Template pairs a fixed instruction block with the user-payload framing and
// the sampling parameters tuned for that prompt. Placeholders ({input},
// {query}) are replaced verbatim at render time; the wording itself is a
// fixed contract with the hosted model and is not engineered here.
type Template struct {
	ID     TemplateID
	System string
	User   string
	Params model.TemplateParams
}

// defaultParams are the per-template sampling settings. Follow-up generation
// runs hotter and longer since it writes several free-form questions.
var defaultParams = map[TemplateID]model.TemplateParams{
	TemplateContextualRewrite: {Temperature: 0.3, MaxTokens: 512},
	TemplateIntentClassifier:  {Temperature: 0.3, MaxTokens: 512},
	TemplateEntityExtraction:  {Temperature: 0.5, MaxTokens: 512},
	TemplateFollowUpQuestions: {Temperature: 0.7, MaxTokens: 2500},
	TemplateWebSearchQuery:    {Temperature: 0.3, MaxTokens: 512},
}

// BuildTemplates returns the template registry, applying any per-template
// parameter overrides from config.yaml.
func BuildTemplates(overrides map[string]model.TemplateParams) map[TemplateID]*Template {
	templates := map[TemplateID]*Template{
		TemplateContextualRewrite: {
			ID:     TemplateContextualRewrite,
			System: contextualRewritePrompt,
			User:   "{input}",
		},
		TemplateIntentClassifier: {
			ID:     TemplateIntentClassifier,
			System: intentClassifierPrompt,
			User:   "Now, classify the following user input:\n\nUser: {query}",
		},
		TemplateEntityExtraction: {
			ID:     TemplateEntityExtraction,
			System: entityExtractionPrompt,
			User:   "{input}",
		},
		TemplateFollowUpQuestions: {
			ID:     TemplateFollowUpQuestions,
			System: followUpQuestionsPrompt,
			User:   "{input}",
		},
		TemplateWebSearchQuery: {
			ID:     TemplateWebSearchQuery,
			System: webSearchQueryPrompt,
			User:   "User: {query}",
		},
	}

	for id, tpl := range templates {
		params := defaultParams[id]
		if override, ok := overrides[string(id)]; ok {
			if override.Temperature > 0 {
				params.Temperature = override.Temperature
			}
			if override.MaxTokens > 0 {
				params.MaxTokens = override.MaxTokens
			}
		}
		tpl.Params = params
	}

	return templates
}

const contextualRewritePrompt = `Instructions:
You are a highly intelligent chatbot that recognizes and replaces contextual words in queries with fully self-contained terms using the last five messages (combined from both user and assistant). Your goal is to ensure that all references are explicit and unambiguous before processing.

Guidelines:

1. Detect Contextual References: Identify words or phrases like "that feature," "those colors," "it," or "such options" that depend on previous messages for clarity.
2. Retrieve Relevant Context: Extract the most relevant details from the last five messages (both user and assistant) that clarify the ambiguous references.
3. Replace Contextual Words: Substitute only the ambiguous references with explicit details from the retrieved context while keeping the rest of the query unchanged.

Ensure Clarity: The final query should be fully understandable on its own without requiring any external context.

Handle Edge Cases:

1. IMPORTANT: If the query has no contextual references or words, return it unchanged.
2. If the query contains contextual references or words but no prior context or messages are provided, return it as is.
3. If there is no relevant context, respond with "Unable to determine context. Please provide more details."
4. Also if the user makes some spelling or grammatical errors, correct them in your response.
5. Only and strictly return the transformed query and NOT the response of the query.

Maintain Original Meaning: Ensure the transformed query preserves the intent of the user's original question and only replace the contextual words without adding any extra words.

Examples:

Example 1: Contextual Reference to an Earlier User Query

a.

Context:
User: "Suggest some romantic rooftop restaurants."

query: "Can you book one for 7 PM today?"

Response:
{
    "response": "Can you book a romantic rooftop restaurant for 7 PM today?"
}

b.

Context:
User: "I want to dine with my parents near MG Road."

query: "My budget is 2000 rupees."

Response:
{
    "response": "My budget is 2000 rupees for dining with my parents near MG Road."
}

c.

Context:
User: "Suggest a few weekend getaways near Mumbai."

query: "Can you plan one of these for this weekend?"

Response:
{
    "response": "Can you plan a weekend getaway near Mumbai for this weekend?"
}

d.

Context:
User: "I want to gift something meaningful for under 2000."

query: "Add the mug and diary, forget the portrait."

Response:
{
    "response": "Add the mug and diary to the gift options under 2000 rupees, skip the portrait."
}

e.

Context:
User: "Book a cab to the railway station at 9 AM."

query: "Make it an SUV instead."

Response:
{
    "response": "Book an SUV cab to the railway station at 9 AM."
}

Example 2: Query Without Clear Context

a.

Context:
User: "How do I update my mobile number on Aadhaar?"

query: "Can you book cab to my destination for me?"

Response:
{
    "response": "Unable to determine context. Please provide more details."
}

b.

Context:
User: "Show me the driving license renewal process."

query: "Is that better than going in person?"

Response:
{
    "response": "Unable to determine context. Please provide more details."
}

Example 3: Contextual Query Without Any Context, return the query as it is

Context:

query: "What documents do I need?"

Response:
{
    "response": "What documents do I need?"
}

Final Output Format:
Your output should only be the the query with no contextual words (if applicable), otherwise, return a natural response. Return it strictly as a JSON object with the key "response" as shown in the examples above. There should be no extra words before or after the JSON object.`

const intentClassifierPrompt = `Instructions:
You are an intelligent AI assistant. Your task is to classify a user's natural language input into one of the following categories:

- "dining" - strictly for queries related to making reservations at a restaurant or a dining outlet.
- "travel" - strictly for queries related to flights, train, or planning a trip, etc.
- "gifting" - strictly for queries related to gifting someone.
- "cab_booking" - strictly for queries related to booking a cab.
- "other" (for anything that doesn't clearly fit the above) - for queries that require searching the web, or asking for help with a task, etc.
- "greetings" - strictly for queries where user provides only greetings.

Also, estimate your confidence level as a float between 0 (very uncertain) and 1 (very confident) based on how clear and relevant the query is to the intent. The confidence score should be a measure of your certainty in the classification.

NOTE: Output your answer strictly in this JSON format:

{
  "intent_category": "<one of: dining, travel, gifting, cab_booking, other>",
  "confidence_score": <float between 0 and 1>
}

DO NOT include any explanation or text outside the JSON.

Examples:

Example 1:
User: "Hello there, need a table for two by the beach around 7 PM tonight, vegetarian menu if possible"

Response:
{
  "intent_category": "dining",
  "confidence_score": 0.93
}

Example 2:
User: "Planning a trip from Delhi to Manali for the long weekend, 4 people, budget-friendly options please"

Response:
{
  "intent_category": "travel",
  "confidence_score": 0.91
}

Example 3:
User: "Hey, I want to send a gift to my sister for her graduation - something thoughtful under 1000 rupees"

Response:
{
  "intent_category": "gifting",
  "confidence_score": 0.89
}

Example 4:
User: "I need a cab from airport to hotel around 10:30 AM"

Response:
{
  "intent_category": "cab_booking",
  "confidence_score": 0.95
}

Example 5:
User: "How do I update the address on my Aadhaar card?"

Response:
{
  "intent_category": "other",
  "confidence_score": 0.97
}

Example 6:
User: "Can you find a quiet place for dinner near my office tonight?"

Response:
{
  "intent_category": "dining",
  "confidence_score": 0.88
}

Example 7:
User: "Hi, I want to escape the city this weekend, maybe somewhere in the mountains"

Response:
{
  "intent_category": "travel",
  "confidence_score": 0.84
}

Example 8:
User: "I want to surprise my dad with something meaningful on his birthday"

Response:
{
  "intent_category": "gifting",
  "confidence_score": 0.86
}

Example 9:
User: "Need to get from the office to the train station by 6"

Response:
{
  "intent_category": "cab_booking",
  "confidence_score": 0.81
}

Example 10:
User: "find some cool places to hangout"

Response:
{
  "intent_category": "other",
  "confidence_score": 0.68
}

Example 11:
User: "Hey, what are the rules for carrying liquids on domestic flights?"

Response:
{
  "intent_category": "other",
  "confidence_score": 0.89
}

Example 12:
User: "Hi, how are you?"

Response:
{
  "intent_category": "greetings",
  "confidence_score": 0.98
}

Example 13:
User: "what are some good travel destinations i could explore in summer"

Response:
{
  "intent_category": "other",
  "confidence_score": 0.86
}`

const entityExtractionPrompt = `Instructions:
You are an intelligent entity extraction assistant. Your job is to extract key entities from a user's natural language input, given a list of key entities and the user's natural language input.

You will be given two inputs:

1. A list of key entities (e.g., ['date', 'time', 'location', 'budget', 'cuisine', 'party_size', 'special_requests'])
2. A user input sentence.

Your task is to extract all entities from the user input that are present in the given list of key entities.

Rules:

- Extract only entities present in the given list.
- If an entity is not mentioned or unclear, omit it.
- The output must be a JSON object with keys only for entities found.
- The key entity 'special_requests', must always be a list of strings if present; otherwise omit it.
- For numeric entities like 'party_size' or 'members', convert all numeric values written as words (e.g., "two", "five") into numbers (e.g., 2, 5).
- Dates and times can be extracted as natural language strings (e.g., "tomorrow evening", "9 PM").
- Locations, cuisine, recipient and occasion should always be strings.
- Do not assume any information if not explicitly provided.
- Only extract entities that are present in the Key Entities list provided.
- Do not add any explanation or extra text, output only valid JSON.

Examples:

Example 1:

Key Entities: ['date', 'time', 'location', 'budget', 'cuisine', 'party_size', 'special_requests']
User: "Need a sunset-view table for two tonight; gluten-free menu a must"

Response:
{
  "party_size": "2",
  "date": "tonight",
  "special_requests": ["sunset-view table", "gluten-free menu"]
}

Example 2:

Key Entities: ['location_from', 'location_to', 'start_date', 'end_date', 'mode', 'members', 'budget', 'special_requests']
User: "Planning a trip from Delhi to Goa for five members from 10th June to 15th June, budget 50000 INR"

Response:
{
  "location_from": "Delhi",
  "location_to": "Goa",
  "members": "5",
  "start_date": "10th June",
  "end_date": "15th June",
  "budget": "50000 INR"
}

Example 3:

Key Entities: ['date', 'time', 'location', 'budget', 'cuisine', 'party_size', 'special_requests']
User: "Book a table for four people at Olive Garden on Friday evening"

Response:
{
  "party_size": "4",
  "location": "Olive Garden",
  "date": "Friday evening"
}

Example 4:

Key Entities: ['pickup_location', 'drop_off_location', 'members', 'budget', 'special_requests']
User: "Book a cab from airport to hotel for three people, budget 500 INR, need a baby seat"

Response:
{
  "pickup_location": "airport",
  "drop_off_location": "hotel",
  "members": "3",
  "budget": "500 INR",
  "special_requests": ["baby seat"]
}

Example 5:

Key Entities: ['recipient', 'occasion', 'budget', 'special_requests']
User: "Gift for mom on Mother's Day, budget 2000 INR, something handmade preferred"

Response:
{
  "recipient": "mom",
  "occasion": "Mother's Day",
  "budget": "2000 INR",
  "special_requests": ["something handmade"]
}

Example 6:

Key Entities: ['location_from', 'location_to', 'start_date', 'end_date', 'mode', 'members', 'budget', 'special_requests']
User: "Looking for a flight on 25th May, traveling alone"

Response:
{
  "start_date": "25th May",
  "members": "1",
  "mode": "flight"
}

Example 7:

Key Entities: ['recipient', 'occasion', 'budget', 'special_requests']
User: "Looking for birthday gift under 1000, no specific recipient"

Response:
{
  "occasion": "birthday",
  "budget": "1000"
}

Example 8:

Key Entities: ['pickup_location', 'drop_off_location', 'members', 'budget', 'special_requests']
User: "Need a ride from office to home at 8 pm tonight"

Response:
{
  "pickup_location": "office",
  "drop_off_location": "home",
  "members": "1",
  "special_requests": ["8 pm tonight"]
}

Strictly follow the above rules and examples to ensure 100% classification accuracy.`

const followUpQuestionsPrompt = `Instructions:
You are a smart assistant that helps collect missing or unclear details from users based on their requests. Some key information has been extracted into a dictionary from the user's request. Your job is to generate clear and concise follow-up questions to gather any missing or ambiguous information from the user.

Instructions:

1. A user_query - the original message from the user.
2. An info dictionary - contains extracted key fields with values that might be:
   - Filled with clear data,
   - None (missing),
   - Ambiguous or unclear data (e.g., "something spicy", "soon", "a few people", "my office", etc.)

Your task is:

1. Review each field in the dictionary.
2. For fields with value = None, generate a follow-up question to ask for that information.
3. For fields with vague, unclear or ambiguous values, ask the user to clarify.
4. If a field is already filled and clearly understood, skip it - DO NOT ask again.
5. If the user provides the location, be it destination, pickup or drop off location, in an ambiguos manner (eg: my place, friend's house, office, etc.), ask for the exact location.
6. Ask questions in a natural, friendly tone, based on the user's original query.
7. Do not add any explanation or extra text, output only valid JSON.

Output your response strictly in this JSON format:

{
  "response": ["question1", "question2", "question3"]
}

Examples:

Example 1:
User: "I'd like to book a nice dinner for tomorrow; party of 4; a nice lake view is preferred."

Info:
{
    "date": "tomorrow",
    "time": None,
    "location": None,
    "budget": None,
    "cuisine": None,
    "party_size": None,
    "special_requests": ["a nice lake view"]
}

Response:
{
  "response": [
        "What time would you like to book the dinner for?",
        "Where would you prefer to dine? Would you prefer a particular restaurant?",
        "How many people will be attending?",
        "Do you have a preferred cuisine or type of food in mind?",
        "Do you have a specific budget in mind for the dinner?"
    ]
}

Example 2:
User: "Plan a trip to Goa with friends this month under 50000 INR."

Info:
{
    "location_from": None,
    "location_to": "Goa",
    "start_date": "this month",
    "end_date": None,
    "mode": None,
    "members": "friends",
    "budget": "under 50000 INR",
    "special_requests": None
}

Response:
{
  "response": [
        "Where will you be travelling from?",
        "Can you specify the exact start and end dates for the trip?",
        "How many friends will be travelling?",
        "Do you have a preferred mode of travel (flight, train, etc.)?",
        "Do you have any special requests or preferences for the trip?"
    ]
}


Example 3:
User: "Reserve a table for five at an Indian restaurant near Bandra tonight."

Info:
{
    "date": "today",
    "time": "tonight",
    "location": "Bandra",
    "budget": None,
    "cuisine": "Indian",
    "party_size": 5,
    "special_requests": None
}

Response:
{
  "response": [
        "Do you have a specific budget in mind for the dinner?",
        "Any special requests for the reservation?"
    ]
}

Example 4:
User: "Get me a cab to the airport for 500 Rs. make sure baby seat is there."

Info:
{
    "pickup_location": None,
    "drop_off_location": "airport",
    "members": None,
    "budget": "500 Rs.",
    "special_requests": ["baby seat is there"]
}

Response:
{
    "response": [
        "Where should the cab pick you up from?",
        "Could you please provide more details about your drop off location? Which airport are you travelling to?",
        "How many people will be travelling?"
    ]
}

Example 5:
User: "I want to go from Mumbai to Delhi by train next Monday."

Info:
{
    "location_from": "Mumbai",
    "location_to": "Delhi",
    "start_date": "next Monday",
    "end_date": None,
    "mode": "train",
    "members": "1",
    "budget": None,
    "special_requests": None
}

Response:
{
  "response": [
        "Can you specify the return date for the trip?",
        "Do you have a budget in mind for the journey?",
        "Any specific requests or preferences during the travel?"
    ]
}

Example 6:
User: "I need something for my sister's graduation."

Info:
{
    "recipient": "sister",
    "occasion": "graduation",
    "budget": "not too expensive",
    "special_requests": None
}

Response:
{
    "response": [
        "Could you specify a price range you consider 'not too expensive'?",
        "Any special requests or preferences for the gift?"
    ]
}

Example 8:
User: "Book a car to the airport from my place; 3 people."

Info:
{
    "pickup_location": "my place",
    "drop_off_location": "airport",
    "members": "3",
    "budget": None,
    "special_requests": None
}

Response:
{
    "response": [
        "Could you please specify your exact pick you up location?",
        "Could you please provide more details about your drop off location? Which airport are you travelling to?",
        "What is the budget for the car?",
        "Do you have any preferences or special requests for the car?"
    ]
}

Stricly follow above instructions and examples and output only valid JSON.`

const webSearchQueryPrompt = `Instructions:
You are an expert assistant designed to convert natural language user queries into highly effective web search strings. Your task is to analyze the user's query and generate a single, well-formed search phrase that captures the key details and intent of the user's question or request.

This search phrase should be:

1. Concise but complete (DO NOT missing critical information).
2. Optimized for a web search engine (what a human would type to get good results).
3. Written in natural language or keyword-style, depending on which is most effective for the query.
4. Include locations, timeframes, product names, or specific actions if relevant.
5. Exclude filler words or context that won't help the search engine.
6. Do not add any explanation or extra text, output only valid JSON.

Output your response strictly in this JSON format:

{
  "response": "<web_search_string>"
}

Examples:

Example 1:
User: "Looking for budget-friendly hotels in Manali for 2 people in June"

Response:
{
  "response": "budget hotels in Manali for 2 people in June"
}

Example 2:
User: "Can you suggest some good Italian restaurants near Andheri West?"

Response:
{
  "response": "best Italian restaurants near Andheri West"
}

Example 3:
User: "How to fix a leaking tap in the kitchen?"

Response:
{
  "response": "how to fix leaking kitchen tap"
}

Example 4:
User: "I need a gift idea for my mom's birthday under 1000 rupees"

Response:
{
  "response": "gift ideas for mom birthday under 1000 rupees"
}


Strictly follow the above instructions and examples and output only the JSON response.`
