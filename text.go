package main

import "github.com/sabyy027/portfolio/internal/domain"

// DefaultProfile is served until a profile is saved from the admin API.
var DefaultProfile = domain.Profile{
	Name:         "Sabeer Anwer Meeran",
	Role:         "Full Stack Engineer",
	About:        `Passionate developer building scalable web applications with modern technologies.`,
	Email:        "sabeeranwermeeran@gmail.com",
	ResumeLink:   "https://sabeer-anwer-meeran-resume.tiiny.site/",
	GithubLink:   "https://github.com/Sabyy027",
	LinkedinLink: "https://www.linkedin.com/in/sabeeranwermeeran/",
}
