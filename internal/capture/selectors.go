package capture

// Selector candidate lists, tried in priority order. Login UIs differ
// between the native form, Azure AD B2C, and Microsoft account flows; each
// list covers the shapes seen in the field so the driver needs no
// per-provider branching.

// EmailSelectors returns candidates for the email/username field
func EmailSelectors() []string {
	return []string{
		`input[type="email"]`,
		`input[name="loginfmt"]`, // Microsoft login
		`input#signInName`,       // Azure AD B2C
		`input#logonIdentifier`,  // Azure AD B2C variant
		`input#i0116`,            // Microsoft account
		`input[name="Email"]`,
		`input[name="email"]`,
		`input[name="username"]`,
		`input[placeholder*="email" i]`,
		`input[type="text"]`, // last resort: first text input
	}
}

// SubmitSelectors returns candidates for the submit/next control shown
// after the email step
func SubmitSelectors() []string {
	return []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button#next`, // Azure AD B2C
		`input#next`,
		`button#idSIButton9`, // Microsoft login
	}
}

// PasswordSelectors returns candidates for the password field
func PasswordSelectors() []string {
	return []string{
		`input[type="password"]`,
		`input#password`, // Azure AD B2C
		`input#i0118`,    // Microsoft account
		`input[name="passwd"]`,
		`input[name="Password"]`,
		`input[name="password"]`,
	}
}

// SignInSelectors returns candidates for the final sign-in control
func SignInSelectors() []string {
	return []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button#next`,
		`button#idSIButton9`,
	}
}

// StaySignedInSelectors returns candidates for the "stay signed in" prompt.
// Either answer advances the flow.
func StaySignedInSelectors() []string {
	return []string{
		`button#idSIButton9`, // "Yes"
		`input#idSIButton9`,
		`input#idBtn_Back`, // "No"
		`button#idBtn_Back`,
	}
}
