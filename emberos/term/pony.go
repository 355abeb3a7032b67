package term

// https://raw.githubusercontent.com/mbasaglia/ASCII-Pony/master/Ponies/vinyl-scratch-noglasses.txt
// https://github.com/mbasaglia/ASCII-Pony/
const ponyArt = "\n" +
	"                                                     __..___\n" +
	"                                               _.-'____<'``\n" +
	"                                         ___.-`.-'`     ```_'-.\n" +
	"                                        /  \\.'` __.----'','/.._\\\n" +
	"                                       ( /  \\_/` ,---''.' /   `-'\n" +
	"                                       | |    `,._\\  ,'  /``''-.,`.\n" +
	"                                      /( '.  \\ _____    ' )   `. `-;\n" +
	"                                     ( /\\   __/   __\\  / `:     \\\n" +
	"                                     || (\\_  (   /.- | |'.|      :\n" +
	"           _..._)`-._                || : \\ ,'\\ ((WW | \\W)j       \\\n" +
	"        .-`.--''---._'-.             |( (, \\   \\_\\_ /   ``-.  \\.   )\n" +
	"      /.-'`  __---__ '-.'.           ' . \\`.`.         \\__/-   )`. |\n" +
	"      /    ,'     __`-. '.\\           V(  \\ `-\\-,______.-'  `. |  `'\n" +
	"     /    /    .'`  ```:. \\)___________/\\ .`.     /.^. /| /.  \\|\n" +
	"    (    (    /   .'  '-':-'             \\|`.:   (/   V )/ |  )'\n" +
	"    (    (   (   (      /   |'-..             `   \\    /,  |  '\n" +
	"    (  ,  \\   \\   \\    |   _|``-|                  |       | /\n" +
	"     \\ |.  \\   \\-. \\   |  (_|  _|                  |       |'\n" +
	"      \\| `. '.  '.`.\\  |      (_|                  |\n" +
	"       '   '.(`-._\\ ` / \\        /             \\__/\n" +
	"              `  ..--'   |      /-,_______\\       \\\n" +
	"               .`      _/      /     |    |\\       \\\n" +
	"                \\     /       /     |     | `--,    \\\n" +
	"                 \\    |      |      |     |   /      )\n" +
	"                  \\__/|      |      |      | (       |\n" +
	"                      |      |      |      |  \\      |\n" +
	"                      |       \\     |       \\  `.___/\n" +
	"                       \\_______)     \\_______)\n"
