package shell

// HelpText is the static command listing returned by help.
const HelpText = `Commands available:
    - help
    - clear
    - git init
    - git checkout <branch>
    - git checkout -b <branch>
    - git commit
    - git branch [<branch>]
    - git merge <branch>`
