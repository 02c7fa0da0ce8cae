package irc

// This file contains documentation for the IRC event handlers.
// The actual handler implementations are split across:
// - client.go: Connection lifecycle and NICK replies
// - commands.go: Client command execution

/*
Handler Summary:

Connection Events:
- 376/422 (onConnect): End of MOTD / MOTD missing - account is signed on
  - Marks the client ready
  - Calls OnSignedOn once per connection
- disconnect (onDisconnect): Connection closed or lost
  - Marks the client not ready, forgets any pending nick request
  - Calls OnSignedOff if the account was signed on

Nick Changes:
- NICK (onNick): Server confirmed a nick change
  - Logs the change when it answers our own request
- 432/433/436/437 (onNickRejected): Erroneous / in use / collision / unavailable
  - Logs a warning when it answers our own request
  - No alternate nick is tried

Commands (ExecuteCommand):
- nick <nickname>: Connection.SetNick(<nickname>), so ircevent keeps
  restoring it on keepalive and reconnect
  - Fails with ErrNotConnected before sign-on or after quit
  - Fails with ErrMissingArgument without a nickname

CTCP:
- Answered by ircevent itself (EnableCTCP), VERSION replies with versionString()
*/
