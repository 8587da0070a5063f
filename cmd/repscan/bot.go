package main

// Run executes the bot command.
func (c *BotCmd) Run(deps *Dependencies) error {
	return deps.Bot.Run(deps.Ctx)
}
