package fulfillment

import "context"

const (
	creatorImageURL  = "https://d1.awsstatic.com/logos/partners/slalom-logo-blue-RGB.826a7ccc6b1972092669c775be9014b2ce5beedd.jpg"
	creatorButtonURL = "https://www.slalom.com/"
)

func (a *Agent) welcome(_ context.Context, _ *Turn) (*Response, error) {
	resp := &Response{}
	resp.Say("Hi, I'm eVect! I can warn you about disease outbreaks on your travels, or help you figure out what to do if you're feeling unwell.")
	return resp, nil
}

func (a *Agent) fallback(_ context.Context, _ *Turn) (*Response, error) {
	resp := &Response{}
	resp.Say("I didn't understand", "I'm sorry, can you try again?")
	return resp, nil
}

func (a *Agent) aboutMe(_ context.Context, _ *Turn) (*Response, error) {
	resp := &Response{}
	resp.Say(
		"I am trained to provide warning and prevention tips to guard against vector borne diseases and epidemics based on your location.",
		"I am also capable of monitoring disease outbreaks in major geographic locations. If you feel ill or unwell, please let me know what symptoms you are experiencing and where you are located.",
	)
	return resp, nil
}

func (a *Agent) creator(_ context.Context, _ *Turn) (*Response, error) {
	resp := &Response{}
	resp.Say("I was built by a team of technologists from the Slalom Los Angeles market that believe data can be harnessed for the greater good of our communities. Please reach out with any questions, concerns, or comments.")
	resp.Show(Card{
		Title:      "Redefine what's possible",
		ImageURL:   creatorImageURL,
		ButtonText: "Learn More",
		ButtonURL:  creatorButtonURL,
	})
	return resp, nil
}
